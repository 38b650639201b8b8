package api

// Endpoint paths, relative to the client's base URL
const (
	PathUsers               = "/users/"
	PathUsersSearch         = "/users/search"
	PathUsersMe             = "/users/me"
	PathUsersCreate         = "/users/create"
	PathUsersLogin          = "/users/login"
	PathUsersVerifyEmail    = "/users/verify-email"
	PathUsersResendVerify   = "/users/resend-verification"
	PathUsersForgotPassword = "/users/forgot-password"
	PathUsersResetPassword  = "/users/reset-password"
	PathUsersUpdatePassword = "/users/update"
	PathUsersUpdateProfile  = "/users/profile/update"
	PathUsersAvatar         = "/users/avatar"

	PathEmployees          = "/employees/"
	PathEmployeesAssign    = "/employees/assign"
	PathEmployeesUploadCSV = "/employees/upload-csv"

	PathSchedules                 = "/schedules/"
	PathSchedule                  = "/schedules/{schedule_id}"
	PathScheduleSync              = "/schedules/{schedule_id}/sync"
	PathSchedulesGoogleStatus     = "/schedules/google/status"
	PathSchedulesGoogleAuth       = "/schedules/google/auth"
	PathSchedulesGoogleDisconnect = "/schedules/google/disconnect"

	PathMessages          = "/messages/"
	PathMessage           = "/messages/{message_id}"
	PathMessageReply      = "/messages/{message_id}/reply"
	PathMessageRead       = "/messages/{message_id}/read"
	PathMessagesInbox     = "/messages/inbox"
	PathMessagesSent      = "/messages/sent"
	PathMessagesUnread    = "/messages/unread-count"
	PathMessagesBatchRead = "/messages/batch-read"

	PathApprovalsLeave   = "/approvals/leave"
	PathApprovalsExpense = "/approvals/expense"
	PathApprovalsMine    = "/approvals/my-requests"
	PathApprovalsPending = "/approvals/pending"
	PathApproval         = "/approvals/{request_id}"
	PathApprovalApprove  = "/approvals/{request_id}/approve"
	PathApprovalReject   = "/approvals/{request_id}/reject"
	PathApprovalCancel   = "/approvals/{request_id}/cancel"

	PathSSOProviders       = "/sso/providers"
	PathSSOLogin           = "/sso/login/{slug}"
	PathSSOSAMLACS         = "/sso/saml/{slug}/acs"
	PathSSOToken           = "/sso/token"
	PathSSOAdminProviders  = "/sso/admin/providers"
	PathSSOAdminProvider   = "/sso/admin/providers/{provider_id}"
	PathSSOAdminActivate   = "/sso/admin/providers/{provider_id}/activate"
	PathSSOAdminDeactivate = "/sso/admin/providers/{provider_id}/deactivate"
	PathSSOAdminConfig     = "/sso/admin/config"

	PathGoogleLogin    = "/auth/google/login"
	PathGoogleCallback = "/auth/google/callback"

	PathChat              = "/chat/"
	PathChatConversations = "/chat/conversations"
	PathChatConversation  = "/chat/conversations/{conversation_id}"

	PathKafka = "/kafka"
	PathMQTT  = "/mqtt"

	PathTaskStatus = "/tasks/status/{task_id}"
	PathTaskCancel = "/tasks/cancel/{task_id}"
	PathTaskResult = "/tasks/result/{task_id}"
)
