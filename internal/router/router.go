package routes

import (
	_ "github.com/Thebys/b48-display-controller/internal/docs" // swagger docs
	"github.com/Thebys/b48-display-controller/internal/response"
	swaggerHandler "github.com/swaggo/http-swagger"
	"net/http"
)

type AppDeps struct {
	Home    HomeHandler
	Message MessageHandler
	Display DisplayHandler
}

type HomeHandler interface {
	Index(w http.ResponseWriter, r *http.Request)
	Health(w http.ResponseWriter, r *http.Request)
}

type MessageHandler interface {
	List(w http.ResponseWriter, r *http.Request)
	Create(w http.ResponseWriter, r *http.Request)
	Update(w http.ResponseWriter, r *http.Request)
	Delete(w http.ResponseWriter, r *http.Request)
	ClearAll(w http.ResponseWriter, r *http.Request)
	CreateEphemeral(w http.ResponseWriter, r *http.Request)
	Purge(w http.ResponseWriter, r *http.Request)
	Wipe(w http.ResponseWriter, r *http.Request)
}

type DisplayHandler interface {
	Status(w http.ResponseWriter, r *http.Request)
	Control(w http.ResponseWriter, r *http.Request)
	Raw(w http.ResponseWriter, r *http.Request)
	Diagnostics(w http.ResponseWriter, r *http.Request)
}

func Register(mux *http.ServeMux, d AppDeps) {
	mux.HandleFunc("GET /{$}", d.Home.Index)
	mux.HandleFunc("GET /healthcheck", d.Home.Health)

	mux.HandleFunc("GET /api/v1/messages", d.Message.List)
	mux.HandleFunc("POST /api/v1/messages", d.Message.Create)
	mux.HandleFunc("DELETE /api/v1/messages", d.Message.ClearAll)
	mux.HandleFunc("PUT /api/v1/messages/{id}", d.Message.Update)
	mux.HandleFunc("DELETE /api/v1/messages/{id}", d.Message.Delete)
	mux.HandleFunc("POST /api/v1/messages/ephemeral", d.Message.CreateEphemeral)

	mux.HandleFunc("GET /api/v1/display/status", d.Display.Status)
	mux.HandleFunc("POST /api/v1/display", d.Display.Control)
	mux.HandleFunc("POST /api/v1/display/raw", d.Display.Raw)
	mux.HandleFunc("GET /api/v1/diagnostics", d.Display.Diagnostics)

	mux.HandleFunc("POST /api/v1/maintenance/purge", d.Message.Purge)
	mux.HandleFunc("POST /api/v1/maintenance/wipe", d.Message.Wipe)

	//Swagger
	mux.HandleFunc("GET /swagger/", swaggerHandler.WrapHandler)

	// Fallback handler for undefined routes (404)
	mux.Handle("/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		response.RespondError(w, http.StatusNotFound, "route not found")
	}))
}
