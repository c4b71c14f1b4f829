package web

import (
	"log"
	"net/http"

	"github.com/RustamTech/Medical-Request-System-Flow/internal/domain"
	"github.com/RustamTech/Medical-Request-System-Flow/internal/transport/web/mw"
	"github.com/RustamTech/Medical-Request-System-Flow/internal/transport/web/v1/doctor"
	"github.com/RustamTech/Medical-Request-System-Flow/internal/transport/web/v1/document"
	"github.com/RustamTech/Medical-Request-System-Flow/internal/transport/web/v1/health"
	"github.com/RustamTech/Medical-Request-System-Flow/internal/transport/web/v1/patient"
	"github.com/RustamTech/Medical-Request-System-Flow/internal/transport/web/v1/request"
)

func newRouter(hh *health.Handler, dh *document.Handler, ph *patient.Handler, doh *doctor.Handler, rh *request.Handler, logger *log.Logger) http.Handler {
	mux := http.NewServeMux()

	// health
	mux.HandleFunc("GET /api/v1/healthz", hh.Liveness)
	mux.HandleFunc("GET /api/v1/readyz", hh.Readiness)

	// documents
	mux.HandleFunc("POST /api/v1/documents", limitBody(domain.MaxDocumentSize+(1<<20), dh.Upload))
	mux.HandleFunc("GET /api/v1/documents/{id}", dh.GetOne)
	mux.HandleFunc("GET /api/v1/documents/{id}/download", dh.Download)
	mux.HandleFunc("DELETE /api/v1/documents/{id}", dh.Delete)
	mux.HandleFunc("GET /api/v1/documents/patient/{patientId}", dh.ListByPatient)
	mux.HandleFunc("GET /api/v1/documents/doctor/{doctorId}", dh.ListByDoctor)
	mux.HandleFunc("GET /api/v1/documents/request/{requestId}", dh.ListByRequest)

	// patients
	mux.HandleFunc("GET /api/v1/patients", ph.List)
	mux.HandleFunc("POST /api/v1/patients", ph.Create)
	mux.HandleFunc("GET /api/v1/patients/{id}", ph.GetByID)
	mux.HandleFunc("PUT /api/v1/patients/{id}", ph.Update)
	mux.HandleFunc("DELETE /api/v1/patients/{id}", ph.Delete)
	mux.HandleFunc("GET /api/v1/patients/{id}/doctors", ph.ListDoctors)
	mux.HandleFunc("POST /api/v1/patients/{id}/doctors/{doctorId}", ph.AddDoctor)
	mux.HandleFunc("DELETE /api/v1/patients/{id}/doctors/{doctorId}", ph.RemoveDoctor)
	mux.HandleFunc("GET /api/v1/patients/{id}/requests", ph.ListRequests)

	// doctors
	mux.HandleFunc("GET /api/v1/doctors", doh.List)
	mux.HandleFunc("POST /api/v1/doctors", doh.Create)
	mux.HandleFunc("GET /api/v1/doctors/{id}", doh.GetByID)
	mux.HandleFunc("PUT /api/v1/doctors/{id}", doh.Update)
	mux.HandleFunc("DELETE /api/v1/doctors/{id}", doh.Delete)
	mux.HandleFunc("GET /api/v1/doctors/{id}/requests", doh.ListRequests)

	// requests
	mux.HandleFunc("GET /api/v1/requests", rh.Search)
	mux.HandleFunc("POST /api/v1/requests", rh.Create)
	mux.HandleFunc("GET /api/v1/requests/{id}", rh.GetByID)
	mux.HandleFunc("DELETE /api/v1/requests/{id}", rh.Delete)
	mux.HandleFunc("PUT /api/v1/requests/{id}/status", rh.SetStatus)

	return mw.WithRequestID(mw.Logging(logger)(mux))
}

func limitBody(n int64, h http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, n)
		h(w, r)
	}
}
