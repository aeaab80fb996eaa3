package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/pilacorp/go-credential-engine/credential/common/jsonmap"
	"github.com/pilacorp/go-credential-engine/credential/validator"
	"github.com/pilacorp/go-credential-engine/credential/vc"
	"github.com/pilacorp/go-credential-engine/credential/vp"
	"github.com/pilacorp/go-credential-engine/did"
)

const (
	examplesContext = "https://www.w3.org/2018/credentials/examples/v1"
	demoType        = "PrescriptionCredential"
	requestTimeout  = 30 * time.Second
	presentationID  = "did:example:id:123"
	welcomeMessage  = "Welcome to the verifiable credential demo. Try GET /test or GET /validate.\n"
)

type handler struct {
	clock validator.Clock
	log   *logrus.Entry
	newID func() string
}

func newHandler(clock validator.Clock, log *logrus.Entry) *handler {
	return &handler{
		clock: clock,
		log:   log,
		newID: func() string { return "urn:uuid:" + uuid.NewString() },
	}
}

func (h *handler) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(h.logRequests)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(requestTimeout))

	r.Get("/", h.welcome)
	r.Get("/test", h.test)
	r.Get("/validate", h.validate)
	return r
}

func (h *handler) welcome(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = fmt.Fprint(w, welcomeMessage)
}

// test builds the demo presentation, validates it and responds with the
// issuer DID.
func (h *handler) test(w http.ResponseWriter, _ *http.Request) {
	issuer, presentation, err := h.buildPresentation()
	if err != nil {
		h.log.WithError(err).Warn("Failed to build demo presentation")
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	report := validator.Validate(presentation, h.clock)
	h.log.WithFields(logrus.Fields{
		"presentation": presentation.ID(),
		"valid":        report.Valid,
		"rules":        report.RuleIDs(),
	}).Info("Validated demo presentation")

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = fmt.Fprint(w, issuer.String())
}

// validate builds the demo presentation and responds with its validation
// report.
func (h *handler) validate(w http.ResponseWriter, _ *http.Request) {
	_, presentation, err := h.buildPresentation()
	if err != nil {
		h.log.WithError(err).Warn("Failed to build demo presentation")
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	report := validator.Validate(presentation, h.clock)
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(report); err != nil {
		h.log.WithError(err).Error("Failed to write validation report")
	}
}

func (h *handler) buildPresentation() (did.DID, vp.Presentation, error) {
	issuer := did.MustBuild("iota", []string{"alice"})

	cb := vc.NewCredentialBuilder().
		Context(examplesContext).
		ID(h.newID()).
		Type(demoType).
		IssuerDID(issuer).
		IssuanceDate(h.clock.Now())
	if err := cb.TrySubject(jsonmap.JSONMap{"id": issuer.String()}); err != nil {
		return did.DID{}, vp.Presentation{}, fmt.Errorf("failed to set credential subject: %w", err)
	}
	credential, err := cb.Build()
	if err != nil {
		return did.DID{}, vp.Presentation{}, fmt.Errorf("failed to build credential: %w", err)
	}

	pb := vp.NewPresentationBuilder().
		Context(examplesContext).
		ID(presentationID).
		Type(demoType).
		Holder(issuer.String()).
		Credential(vc.NewVerifiableCredential(credential, jsonmap.JSONMap{}))
	if err := pb.TryRefreshService(jsonmap.JSONMap{"id": "", "type": "Refresh2020"}); err != nil {
		return did.DID{}, vp.Presentation{}, fmt.Errorf("failed to set refresh service: %w", err)
	}
	for _, policy := range []string{"Policy2019", "Policy2020"} {
		if err := pb.TryTermsOfUse(jsonmap.JSONMap{"type": policy}); err != nil {
			return did.DID{}, vp.Presentation{}, fmt.Errorf("failed to set terms of use: %w", err)
		}
	}
	presentation, err := pb.Build()
	if err != nil {
		return did.DID{}, vp.Presentation{}, fmt.Errorf("failed to build presentation: %w", err)
	}
	return issuer, presentation, nil
}

func (h *handler) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		h.log.WithFields(logrus.Fields{
			"request_id": middleware.GetReqID(r.Context()),
			"method":     r.Method,
			"path":       r.URL.Path,
			"status":     ww.Status(),
			"duration":   time.Since(start),
		}).Debug("Handled request")
	})
}
