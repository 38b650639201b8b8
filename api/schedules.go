package api

import "context"

type ScheduleCreatorResponse struct {
	ID   string  `json:"id"`
	UID  string  `json:"uid"`
	Name *string `json:"name,omitempty"`
}

type GoogleSyncResponse struct {
	IsSynced      bool    `json:"is_synced"`
	GoogleEventID *string `json:"google_event_id,omitempty"`
	LastSyncedAt  *string `json:"last_synced_at,omitempty"`
	SyncError     *string `json:"sync_error,omitempty"`
}

type ScheduleListItem struct {
	ID          string                   `json:"id"`
	Title       string                   `json:"title"`
	Description *string                  `json:"description,omitempty"`
	Location    *string                  `json:"location,omitempty"`
	StartTime   string                   `json:"start_time"`
	EndTime     string                   `json:"end_time"`
	AllDay      bool                     `json:"all_day"`
	Creator     *ScheduleCreatorResponse `json:"creator,omitempty"`
	IsSynced    bool                     `json:"is_synced,omitempty"`
	CreatedAt   string                   `json:"created_at"`
}

type ScheduleListResponse = Page[ScheduleListItem]

type ScheduleResponse struct {
	ID          string                   `json:"id"`
	Title       string                   `json:"title"`
	Description *string                  `json:"description,omitempty"`
	Location    *string                  `json:"location,omitempty"`
	StartTime   string                   `json:"start_time"`
	EndTime     string                   `json:"end_time"`
	AllDay      bool                     `json:"all_day"`
	Timezone    string                   `json:"timezone"`
	Creator     *ScheduleCreatorResponse `json:"creator,omitempty"`
	GoogleSync  GoogleSyncResponse       `json:"google_sync"`
	CreatedAt   string                   `json:"created_at"`
	UpdatedAt   *string                  `json:"updated_at,omitempty"`
}

type CreateScheduleRequest struct {
	Title        string  `json:"title" validate:"required"`
	Description  *string `json:"description,omitempty"`
	Location     *string `json:"location,omitempty"`
	StartTime    string  `json:"start_time" validate:"required"`
	EndTime      string  `json:"end_time" validate:"required"`
	AllDay       bool    `json:"all_day,omitempty"`
	Timezone     string  `json:"timezone,omitempty"`
	SyncToGoogle bool    `json:"sync_to_google,omitempty"`
}

type UpdateScheduleRequest struct {
	Title        *string `json:"title,omitempty"`
	Description  *string `json:"description,omitempty"`
	Location     *string `json:"location,omitempty"`
	StartTime    *string `json:"start_time,omitempty"`
	EndTime      *string `json:"end_time,omitempty"`
	AllDay       *bool   `json:"all_day,omitempty"`
	Timezone     *string `json:"timezone,omitempty"`
	SyncToGoogle *bool   `json:"sync_to_google,omitempty"`
}

type GoogleStatusResponse struct {
	Connected  bool    `json:"connected"`
	CalendarID *string `json:"calendar_id,omitempty"`
	Email      *string `json:"email,omitempty"`
}

type GoogleAuthURLResponse struct {
	AuthURL string `json:"auth_url"`
	State   string `json:"state,omitempty"`
}

// ScheduleQuery filters a schedule listing. Zero values are omitted.
type ScheduleQuery struct {
	Page      int
	Size      int
	StartFrom string
	StartTo   string
}

type ScheduleService struct {
	c *Client
}

func (s *ScheduleService) List(ctx context.Context, q ScheduleQuery) (*ScheduleListResponse, error) {
	query := pageQuery(q.Page, q.Size)
	if q.StartFrom != "" {
		query.Set("start_from", q.StartFrom)
	}
	if q.StartTo != "" {
		query.Set("start_to", q.StartTo)
	}
	return call[ScheduleListResponse](ctx, s.c, &request{
		operation: "listSchedules",
		method:    "GET",
		url:       PathSchedules,
		query:     query,
	})
}

func (s *ScheduleService) Create(ctx context.Context, req CreateScheduleRequest) (*ScheduleResponse, error) {
	return call[ScheduleResponse](ctx, s.c, &request{
		operation: "createSchedule",
		method:    "POST",
		url:       PathSchedules,
		body:      req,
		mediaType: MediaTypeJSON,
	})
}

func (s *ScheduleService) Get(ctx context.Context, scheduleID string) (*ScheduleResponse, error) {
	return call[ScheduleResponse](ctx, s.c, &request{
		operation: "getSchedule",
		method:    "GET",
		url:       PathSchedule,
		path:      map[string]string{"schedule_id": scheduleID},
	})
}

func (s *ScheduleService) Update(ctx context.Context, scheduleID string, req UpdateScheduleRequest) (*ScheduleResponse, error) {
	return call[ScheduleResponse](ctx, s.c, &request{
		operation: "updateSchedule",
		method:    "PUT",
		url:       PathSchedule,
		path:      map[string]string{"schedule_id": scheduleID},
		body:      req,
		mediaType: MediaTypeJSON,
	})
}

func (s *ScheduleService) Delete(ctx context.Context, scheduleID string) (*ActionResponse, error) {
	return call[ActionResponse](ctx, s.c, &request{
		operation: "deleteSchedule",
		method:    "DELETE",
		url:       PathSchedule,
		path:      map[string]string{"schedule_id": scheduleID},
	})
}

// Sync pushes one schedule to the connected Google calendar.
func (s *ScheduleService) Sync(ctx context.Context, scheduleID string) (*ScheduleResponse, error) {
	return call[ScheduleResponse](ctx, s.c, &request{
		operation: "syncSchedule",
		method:    "POST",
		url:       PathScheduleSync,
		path:      map[string]string{"schedule_id": scheduleID},
	})
}

func (s *ScheduleService) GoogleStatus(ctx context.Context) (*GoogleStatusResponse, error) {
	return call[GoogleStatusResponse](ctx, s.c, &request{
		operation: "getGoogleStatus",
		method:    "GET",
		url:       PathSchedulesGoogleStatus,
	})
}

// GoogleAuthURL returns the consent URL; callers should pass it through a
// redirect.Validator before following it.
func (s *ScheduleService) GoogleAuthURL(ctx context.Context) (*GoogleAuthURLResponse, error) {
	return call[GoogleAuthURLResponse](ctx, s.c, &request{
		operation: "getGoogleAuthUrl",
		method:    "GET",
		url:       PathSchedulesGoogleAuth,
	})
}

func (s *ScheduleService) DisconnectGoogle(ctx context.Context) (*ActionResponse, error) {
	return call[ActionResponse](ctx, s.c, &request{
		operation: "disconnectGoogle",
		method:    "DELETE",
		url:       PathSchedulesGoogleDisconnect,
	})
}
