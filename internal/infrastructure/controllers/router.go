package controllers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	logger "github.com/sirupsen/logrus"

	"github.com/rios0rios0/giteasync/internal/domain/commands"
	"github.com/rios0rios0/giteasync/internal/domain/entities"
	"github.com/rios0rios0/giteasync/internal/infrastructure/repositories/memory"
)

const (
	maxPayloadBytes = 5 << 20
	requestTimeout  = 60 * time.Second

	headerEvent     = "X-Gitea-Event"
	headerSignature = "X-Gitea-Signature"
)

var errInvalidBuildEvent = errors.New("invalid build event")

// RouterDependencies are the collaborators behind the HTTP endpoints.
type RouterDependencies struct {
	Sync    commands.WebhookSync
	Status  commands.Status
	Reindex commands.Reindex
	Owners  *memory.SourceOwnerRepository
	Queue   *memory.BuildQueueRepository
}

type handler struct {
	settings *entities.Settings
	deps     RouterDependencies
	limiter  *rateLimiter
}

// NewRouter creates the chi router serving inbound webhooks and orchestrator callbacks.
func NewRouter(settings *entities.Settings, deps RouterDependencies) http.Handler {
	h := &handler{
		settings: settings,
		deps:     deps,
		limiter:  newRateLimiter(settings.Listen.RatePerMinute),
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(requestTimeout))

	r.Get("/health", h.healthCheck)
	r.Post("/"+entities.WebhookPath, h.receiveWebhook)
	r.Route("/owners", func(r chi.Router) {
		r.Put("/{name}", h.saveOwner)
		r.Delete("/{name}", h.deleteOwner)
	})
	r.Route("/builds", func(r chi.Router) {
		r.Post("/events", h.buildEvent)
		r.Post("/queue/{id}/leave", h.leaveQueue)
	})

	return r
}

func (h *handler) healthCheck(w http.ResponseWriter, _ *http.Request) {
	respondWithJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// giteaPayload holds the part of a Gitea webhook payload naming the repository.
type giteaPayload struct {
	Repository struct {
		Name     string `json:"name"`
		FullName string `json:"full_name"`
		Owner    struct {
			Login    string `json:"login"`
			Username string `json:"username"`
		} `json:"owner"`
	} `json:"repository"`
}

func (p giteaPayload) identity() entities.RepositoryIdentity {
	owner := p.Repository.Owner.Login
	if owner == "" {
		owner = p.Repository.Owner.Username
	}
	name := p.Repository.Name
	if (owner == "" || name == "") && strings.Contains(p.Repository.FullName, "/") {
		owner, name, _ = strings.Cut(p.Repository.FullName, "/")
	}
	return entities.RepositoryIdentity{Owner: owner, Name: name}
}

// receiveWebhook handles POST /gitea-webhook/post.
func (h *handler) receiveWebhook(w http.ResponseWriter, r *http.Request) {
	client := clientAddress(r)
	if !h.limiter.Allow(client) {
		logger.Warnf("Rate limit exceeded for %s", client)
		respondWithError(w, http.StatusTooManyRequests, "Rate limit exceeded")
		return
	}

	event := r.Header.Get(headerEvent)
	if event == "" {
		respondWithError(w, http.StatusBadRequest, "Missing "+headerEvent+" header")
		return
	}

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxPayloadBytes))
	if err != nil {
		respondWithError(w, http.StatusRequestEntityTooLarge, "Payload too large")
		return
	}
	if err = verifySignature(h.settings.WebhookSecret, body, r.Header.Get(headerSignature)); err != nil {
		logger.Warnf("Rejected %s webhook from %s: %v", event, client, err)
		respondWithError(w, http.StatusUnauthorized, "Invalid signature")
		return
	}

	var payload giteaPayload
	if err = json.Unmarshal(body, &payload); err != nil {
		respondWithError(w, http.StatusBadRequest, "Malformed payload")
		return
	}
	identity := payload.identity()
	if identity.Owner == "" || identity.Name == "" {
		respondWithError(w, http.StatusBadRequest, "Payload does not name a repository")
		return
	}

	heads, err := h.deps.Reindex.Execute(r.Context(), h.settings, entities.PushEvent{
		Event:      event,
		Owner:      identity.Owner,
		Repository: identity.Name,
	})
	if err != nil {
		logger.Errorf("Failed to re-scan %s after %s event: %v", identity, event, err)
		respondWithError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]int{"heads": len(heads)})
}

type sourceRequest struct {
	Kind                string   `json:"kind"`
	Owner               string   `json:"owner"`
	Repository          string   `json:"repository"`
	CredentialsID       string   `json:"credentials_id"`
	AutoRegisterHook    bool     `json:"auto_register_hook"`
	Includes            string   `json:"includes"`
	Excludes            string   `json:"excludes"`
	Criteria            []string `json:"criteria"`
	BuildFailureLabelID int64    `json:"build_failure_label_id"`
}

type ownerRequest struct {
	Sources []sourceRequest `json:"sources"`
}

func (req ownerRequest) toEntity(name string) (entities.SourceOwner, error) {
	owner := entities.SourceOwner{Name: name, Sources: make([]entities.TrackedSource, 0, len(req.Sources))}
	for i, src := range req.Sources {
		kind := entities.SourceKind(src.Kind)
		if kind == "" {
			kind = entities.SourceKindGitea
		}
		if kind != entities.SourceKindGitea && kind != entities.SourceKindGit {
			return owner, fmt.Errorf("sources[%d].kind %q is not supported", i, src.Kind)
		}
		if src.Owner == "" || src.Repository == "" {
			return owner, fmt.Errorf("sources[%d] requires owner and repository", i)
		}
		filter, err := entities.NewBranchFilter(src.Includes, src.Excludes, src.Criteria)
		if err != nil {
			return owner, fmt.Errorf("sources[%d]: %w", i, err)
		}
		owner.Sources = append(owner.Sources, entities.TrackedSource{
			Kind:                kind,
			Owner:               src.Owner,
			Repository:          src.Repository,
			CredentialsID:       src.CredentialsID,
			AutoRegisterHook:    src.AutoRegisterHook,
			Includes:            src.Includes,
			Excludes:            src.Excludes,
			Criteria:            src.Criteria,
			BuildFailureLabelID: src.BuildFailureLabelID,
			Filter:              filter,
		})
	}
	return owner, nil
}

// saveOwner handles PUT /owners/{name}.
func (h *handler) saveOwner(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")

	var req ownerRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxPayloadBytes)).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Malformed owner")
		return
	}
	owner, err := req.toEntity(name)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	if h.deps.Owners.Save(owner) {
		h.deps.Sync.OnCreated(owner)
		respondWithJSON(w, http.StatusCreated, map[string]string{"name": name})
		return
	}
	h.deps.Sync.OnUpdated(owner)
	respondWithJSON(w, http.StatusOK, map[string]string{"name": name})
}

// deleteOwner handles DELETE /owners/{name}.
func (h *handler) deleteOwner(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")

	owner, found := h.deps.Owners.Delete(name)
	if !found {
		respondWithError(w, http.StatusNotFound, "Owner not found")
		return
	}
	h.deps.Sync.OnDeleted(*owner)
	w.WriteHeader(http.StatusNoContent)
}

// buildEvent handles POST /builds/events.
func (h *handler) buildEvent(w http.ResponseWriter, r *http.Request) {
	var event buildEvent
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxPayloadBytes)).Decode(&event); err != nil {
		respondWithError(w, http.StatusBadRequest, "Malformed build event")
		return
	}

	err := dispatchBuildEvent(r.Context(), h.settings, h.deps.Status, h.deps.Queue, event)
	switch {
	case errors.Is(err, errInvalidBuildEvent):
		respondWithError(w, http.StatusBadRequest, err.Error())
	case err != nil:
		respondWithError(w, http.StatusUnprocessableEntity, err.Error())
	default:
		w.WriteHeader(http.StatusAccepted)
	}
}

// leaveQueue handles POST /builds/queue/{id}/leave.
func (h *handler) leaveQueue(w http.ResponseWriter, r *http.Request) {
	queueID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid queue id")
		return
	}
	h.deps.Queue.Leave(queueID)
	w.WriteHeader(http.StatusNoContent)
}

func respondWithError(w http.ResponseWriter, code int, message string) {
	respondWithJSON(w, code, map[string]string{"error": message})
}

func respondWithJSON(w http.ResponseWriter, code int, payload any) {
	response, err := json.Marshal(payload)
	if err != nil {
		logger.Errorf("Failed to marshal response: %v", err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_, _ = w.Write(response)
}
