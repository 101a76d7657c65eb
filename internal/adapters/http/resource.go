package web

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"churchsite/internal/adapters/http/middleware"
	"churchsite/internal/adapters/storage"
)

// contentStore is the CRUD surface shared by the content stores.
type contentStore[T any] interface {
	GetByID(ctx context.Context, id string) (T, error)
	Save(ctx context.Context, value T) error
	Delete(ctx context.Context, id string) error
}

// resource serves JSON CRUD for one content type under /api/<name>.
// Reads are public; writes need an editor.
type resource[T any] struct {
	name  string
	store contentStore[T]
	now   func() time.Time
	// list returns the collection for GET /.
	list func(r *http.Request) ([]T, error)
	// id exposes the record's ID field.
	id func(*T) *string
	// prepare stamps timestamps and validates; prev is nil on create.
	prepare func(v *T, prev *T, now time.Time) error
	// visible hides records from anonymous readers (e.g. drafts); nil shows all.
	visible func(v *T) bool
}

func (res resource[T]) routes(r chi.Router) {
	r.Get("/", res.handleList)
	r.Get("/{id}", res.handleGet)
	r.With(middleware.RequireEditor).Post("/", res.handleCreate)
	r.With(middleware.RequireEditor).Put("/{id}", res.handleUpdate)
	r.With(middleware.RequireEditor).Delete("/{id}", res.handleDelete)
}

func canSeeAll(r *http.Request) bool {
	p, ok := middleware.PrincipalFromContext(r.Context())
	return ok && p.CanEdit()
}

func (res resource[T]) handleList(w http.ResponseWriter, r *http.Request) {
	items, err := res.list(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	out := make([]T, 0, len(items))
	for i := range items {
		if res.visible == nil || canSeeAll(r) || res.visible(&items[i]) {
			out = append(out, items[i])
		}
	}
	writeJSON(w, http.StatusOK, out)
}

func (res resource[T]) handleGet(w http.ResponseWriter, r *http.Request) {
	v, err := res.store.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	if res.visible != nil && !canSeeAll(r) && !res.visible(&v) {
		http.Error(w, "not found", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, v)
}

func (res resource[T]) handleCreate(w http.ResponseWriter, r *http.Request) {
	var v T
	if err := strictDecode(w, r, &v); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	id := res.id(&v)
	if *id == "" {
		*id = generateID()
	} else if _, err := res.store.GetByID(r.Context(), *id); err == nil {
		http.Error(w, res.name+" "+*id+" already exists", http.StatusConflict)
		return
	} else if !errors.Is(err, storage.ErrNotFound) {
		writeError(w, r, err)
		return
	}
	if err := res.prepare(&v, nil, res.now()); err != nil {
		writeError(w, r, err)
		return
	}
	if err := res.store.Save(r.Context(), v); err != nil {
		writeError(w, r, err)
		return
	}
	res.audit(r, "content_created", *id)
	writeJSON(w, http.StatusCreated, v)
}

func (res resource[T]) handleUpdate(w http.ResponseWriter, r *http.Request) {
	idParam := chi.URLParam(r, "id")
	prev, err := res.store.GetByID(r.Context(), idParam)
	if err != nil {
		writeError(w, r, err)
		return
	}
	var v T
	if err := strictDecode(w, r, &v); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if id := res.id(&v); *id == "" {
		*id = idParam
	} else if *id != idParam {
		http.Error(w, "id in body does not match the URL", http.StatusBadRequest)
		return
	}
	if err := res.prepare(&v, &prev, res.now()); err != nil {
		writeError(w, r, err)
		return
	}
	if err := res.store.Save(r.Context(), v); err != nil {
		writeError(w, r, err)
		return
	}
	res.audit(r, "content_updated", idParam)
	writeJSON(w, http.StatusOK, v)
}

func (res resource[T]) handleDelete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := res.store.Delete(r.Context(), id); err != nil {
		writeError(w, r, err)
		return
	}
	res.audit(r, "content_deleted", id)
	w.WriteHeader(http.StatusNoContent)
}

func (res resource[T]) audit(r *http.Request, action, id string) {
	ev := log.Info().Str("event", action).Str("resource", res.name).Str("id", id)
	if p, ok := middleware.PrincipalFromContext(r.Context()); ok {
		ev = ev.Str("user", p.User.Username)
	}
	ev.Msg("content_event")
}

// invalid marks a Validate failure as a client error.
func invalid(err error) error {
	if err == nil {
		return nil
	}
	return contentValidationError{err}
}
