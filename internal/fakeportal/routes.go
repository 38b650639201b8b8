package fakeportal

import "github.com/jrsteele09/go-portal-client/api"

func (s *Server) initRoutes() {
	s.RegisterRouteFunc("POST "+api.PathUsersLogin, s.loginHandler())
	s.RegisterRouteFunc("POST "+api.PathUsersCreate, s.createUserHandler())
	s.RegisterRouteFunc("GET "+api.PathUsersMe, s.requireAuth(s.meHandler()))
	s.RegisterRouteFunc("GET "+api.PathUsers+"{$}", s.requireAuth(s.requireAdmin(s.listUsersHandler())))
	s.RegisterRouteFunc("POST "+api.PathUsersAvatar, s.requireAuth(s.avatarHandler()))

	s.RegisterRouteFunc("POST "+api.PathEmployeesAssign, s.requireAuth(s.requireAdmin(s.assignEmployeeHandler())))
	s.RegisterRouteFunc("POST "+api.PathEmployeesUploadCSV, s.requireAuth(s.requireAdmin(s.uploadCSVHandler())))

	s.RegisterRouteFunc("POST "+api.PathSSOSAMLACS, s.samlACSHandler())

	s.RegisterRouteFunc("POST "+api.PathKafka+"/produce", s.requireAuth(s.publishHandler("kafka")))
	s.RegisterRouteFunc("GET "+api.PathKafka+"/messages", s.requireAuth(s.brokerMessagesHandler("kafka")))
	s.RegisterRouteFunc("POST "+api.PathMQTT+"/publish", s.requireAuth(s.publishHandler("mqtt")))
	s.RegisterRouteFunc("GET "+api.PathMQTT+"/messages", s.requireAuth(s.brokerMessagesHandler("mqtt")))

	s.RegisterRouteFunc("GET "+api.PathTaskStatus, s.requireAuth(s.taskStatusHandler()))
	s.RegisterRouteFunc("DELETE "+api.PathTaskCancel, s.requireAuth(s.taskCancelHandler()))
	s.RegisterRouteFunc("GET "+api.PathTaskResult, s.requireAuth(s.taskResultHandler()))
}
