package apiapp

import (
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/SketchTurnerrr/imago-server/internal/config"
	authsvc "github.com/SketchTurnerrr/imago-server/internal/services/auth"
	chatssvc "github.com/SketchTurnerrr/imago-server/internal/services/chats"
	likessvc "github.com/SketchTurnerrr/imago-server/internal/services/likes"
	matchessvc "github.com/SketchTurnerrr/imago-server/internal/services/matches"
	photossvc "github.com/SketchTurnerrr/imago-server/internal/services/photos"
	profilessvc "github.com/SketchTurnerrr/imago-server/internal/services/profiles"
	promptssvc "github.com/SketchTurnerrr/imago-server/internal/services/prompts"
	"github.com/SketchTurnerrr/imago-server/internal/transport/http/handlers"
)

type Dependencies struct {
	AuthService    *authsvc.Service
	ProfileService *profilessvc.Service
	PhotoService   *photossvc.Service
	PromptService  *promptssvc.Service
	LikeService    *likessvc.Service
	MatchService   *matchessvc.Service
	ChatService    *chatssvc.Service
	Logger         *zap.Logger
	Config         config.Config
}

func RegisterRoutes(r chi.Router, deps Dependencies) {
	authHandler := handlers.NewAuthHandler(deps.AuthService)
	meHandler := handlers.NewMeHandler(deps.ProfileService)
	discoveryHandler := handlers.NewDiscoveryHandler(deps.ProfileService)
	profileHandler := handlers.NewProfileHandler(deps.ProfileService)
	photosHandler := handlers.NewPhotosHandler(deps.PhotoService)
	promptsHandler := handlers.NewPromptsHandler(deps.PromptService)
	likesHandler := handlers.NewLikesHandler(deps.LikeService)
	matchesHandler := handlers.NewMatchesHandler(deps.MatchService)
	chatsHandler := handlers.NewChatsHandler(deps.ChatService)
	authMW := AuthMiddleware(deps.AuthService, deps.Logger)

	r.Get("/healthz", handlers.Health)

	r.Route("/v1", func(r chi.Router) {
		r.With(authMW).Post("/auth/logout", authHandler.Logout)

		r.With(authMW).Get("/me", meHandler.Get)
		r.With(authMW).Patch("/me", meHandler.Update)

		r.With(authMW).Get("/discovery/next", discoveryHandler.Next)
		r.With(authMW).Get("/profiles/{id}", profileHandler.Get)

		r.With(authMW).Get("/photos", photosHandler.List)
		r.With(authMW).Post("/photos", photosHandler.Add)
		r.With(authMW).Put("/photos/order", photosHandler.Reorder)
		r.With(authMW).Delete("/photos/{id}", photosHandler.Remove)

		r.Get("/prompts/questions", promptsHandler.Questions)
		r.With(authMW).Get("/prompts", promptsHandler.List)
		r.With(authMW).Post("/prompts", promptsHandler.Create)
		r.With(authMW).Delete("/prompts/{id}", promptsHandler.Remove)

		r.With(authMW).Post("/likes", likesHandler.Add)
		r.With(authMW).Delete("/likes", likesHandler.Remove)
		r.With(authMW).Get("/likes/incoming", likesHandler.Incoming)
		r.With(authMW).Get("/likes/{id}", likesHandler.Get)

		r.With(authMW).Post("/matches", matchesHandler.Create)

		r.With(authMW).Get("/conversations", chatsHandler.List)
		r.With(authMW).Get("/conversations/{id}", chatsHandler.Get)
		r.With(authMW).Post("/conversations/{id}/messages", chatsHandler.Send)
	})
}
