package rest

import (
	"net/http"

	"sessionbook/internal/config"
	"sessionbook/internal/core/token"
	"sessionbook/internal/logger"
	"sessionbook/internal/transport/rest/middleware"
)

type RouterDeps struct {
	Codec    *token.Codec
	Resolver middleware.Resolver

	Auth    *AuthHandler
	Session *SessionHandler
	Teacher *TeacherHandler
	User    *UserHandler
}

func NewRouter(cfg *config.Config, log logger.Logger, deps *RouterDeps) http.Handler {
	mux := http.NewServeMux()

	globalMw := middleware.New()
	globalMw.Use(middleware.RequestID())
	globalMw.Use(middleware.CORS(cfg))
	globalMw.Use(middleware.Authenticate(deps.Codec, deps.Resolver, log))

	// Everything outside /api/auth/login and /api/auth/register requires a
	// resolved principal.
	authStack := middleware.New()
	authStack.Use(middleware.RequireAuth())

	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	})

	mux.HandleFunc("POST /api/auth/register", deps.Auth.Register)
	mux.HandleFunc("POST /api/auth/login", deps.Auth.Login)
	mux.Handle("GET /api/auth/me", authStack.Then(http.HandlerFunc(deps.Auth.Me)))

	mux.Handle("GET /api/session", authStack.Then(http.HandlerFunc(deps.Session.Index)))
	mux.Handle("POST /api/session", authStack.Then(http.HandlerFunc(deps.Session.Store)))
	mux.Handle("GET /api/session/{id}", authStack.Then(http.HandlerFunc(deps.Session.Show)))
	mux.Handle("PUT /api/session/{id}", authStack.Then(http.HandlerFunc(deps.Session.Update)))
	mux.Handle("DELETE /api/session/{id}", authStack.Then(http.HandlerFunc(deps.Session.Destroy)))
	mux.Handle("POST /api/session/{id}/participate/{userId}", authStack.Then(http.HandlerFunc(deps.Session.Participate)))
	mux.Handle("DELETE /api/session/{id}/participate/{userId}", authStack.Then(http.HandlerFunc(deps.Session.Unparticipate)))

	mux.Handle("GET /api/teacher", authStack.Then(http.HandlerFunc(deps.Teacher.Index)))
	mux.Handle("GET /api/teacher/{id}", authStack.Then(http.HandlerFunc(deps.Teacher.Show)))

	mux.Handle("GET /api/user/{id}", authStack.Then(http.HandlerFunc(deps.User.Show)))
	mux.Handle("DELETE /api/user/{id}", authStack.Then(http.HandlerFunc(deps.User.Destroy)))

	return globalMw.Apply(mux)
}
