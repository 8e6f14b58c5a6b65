package httpapi

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/dmitrijs2005/microblog/internal/common"
	"github.com/dmitrijs2005/microblog/internal/timeline"
	"github.com/go-chi/chi/v5"
)

// Default window for GET /api/users/{id}/timeline.
const (
	defaultStart = 0
	defaultCount = 10
)

type createUserRequest struct {
	UserName string `json:"userName"`
}

type followRequest struct {
	TargetID string `json:"targetId"`
}

type createPostRequest struct {
	Body string `json:"body"`
}

func decode(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return fmt.Errorf("%w: invalid JSON body", common.ErrInvalidArgument)
	}
	return nil
}

func queryInt(r *http.Request, name string, def int64) (int64, error) {
	v := r.URL.Query().Get(name)
	if v == "" {
		return def, nil
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %s must be an integer", common.ErrInvalidArgument, name)
	}
	return n, nil
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if err := s.store.Ping(r.Context()); err != nil {
		s.writeError(r.Context(), w, err)
		return
	}
	s.writeJSON(r.Context(), w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleCreateUser(w http.ResponseWriter, r *http.Request) {
	var req createUserRequest
	if err := decode(r, &req); err != nil {
		s.writeError(r.Context(), w, err)
		return
	}
	if req.UserName == "" {
		s.writeError(r.Context(), w, fmt.Errorf("%w: userName is required", common.ErrInvalidArgument))
		return
	}

	id, err := s.store.CreateUser(r.Context(), req.UserName)
	if err != nil {
		s.writeError(r.Context(), w, err)
		return
	}
	s.writeJSON(r.Context(), w, http.StatusCreated, timeline.User{ID: id, Name: req.UserName})
}

func (s *Server) handleResolveUser(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	id, err := s.store.ResolveUserID(r.Context(), name)
	if err != nil {
		s.writeError(r.Context(), w, err)
		return
	}
	s.writeJSON(r.Context(), w, http.StatusOK, timeline.User{ID: id, Name: name})
}

func (s *Server) handleFollow(w http.ResponseWriter, r *http.Request) {
	var req followRequest
	if err := decode(r, &req); err != nil {
		s.writeError(r.Context(), w, err)
		return
	}
	if req.TargetID == "" {
		s.writeError(r.Context(), w, fmt.Errorf("%w: targetId is required", common.ErrInvalidArgument))
		return
	}

	userID := chi.URLParam(r, "id")
	if err := s.store.RequireUsers(r.Context(), userID, req.TargetID); err != nil {
		s.writeError(r.Context(), w, err)
		return
	}
	if err := s.store.Follow(r.Context(), userID, req.TargetID); err != nil {
		s.writeError(r.Context(), w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleCreatePost(w http.ResponseWriter, r *http.Request) {
	var req createPostRequest
	if err := decode(r, &req); err != nil {
		s.writeError(r.Context(), w, err)
		return
	}

	userID := chi.URLParam(r, "id")
	if err := s.store.RequireUsers(r.Context(), userID); err != nil {
		s.writeError(r.Context(), w, err)
		return
	}

	p, err := s.store.CreatePost(r.Context(), userID, req.Body)
	if err != nil {
		s.writeError(r.Context(), w, err)
		return
	}
	s.writeJSON(r.Context(), w, http.StatusCreated, p)
}

func (s *Server) handleUserTimeline(w http.ResponseWriter, r *http.Request) {
	start, err := queryInt(r, "start", defaultStart)
	if err != nil {
		s.writeError(r.Context(), w, err)
		return
	}
	count, err := queryInt(r, "count", defaultCount)
	if err != nil {
		s.writeError(r.Context(), w, err)
		return
	}

	posts, err := s.store.GetUserTimeline(r.Context(), chi.URLParam(r, "id"), start, count)
	if err != nil {
		s.writeError(r.Context(), w, err)
		return
	}
	s.writeJSON(r.Context(), w, http.StatusOK, posts)
}

func (s *Server) handleGlobalTimeline(w http.ResponseWriter, r *http.Request) {
	posts, err := s.store.GetGlobalTimeline(r.Context())
	if err != nil {
		s.writeError(r.Context(), w, err)
		return
	}
	s.writeJSON(r.Context(), w, http.StatusOK, posts)
}

func (s *Server) handleGetPost(w http.ResponseWriter, r *http.Request) {
	p, err := s.store.GetPost(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(r.Context(), w, err)
		return
	}
	s.writeJSON(r.Context(), w, http.StatusOK, p)
}

func (s *Server) handleFollowers(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	ids, err := s.store.Followers(r.Context(), id)
	s.writeUsers(w, r, "followers:"+id, ids, err)
}

func (s *Server) handleFollowing(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	ids, err := s.store.Following(r.Context(), id)
	s.writeUsers(w, r, "followed:"+id, ids, err)
}

func (s *Server) handleCommonFollowers(w http.ResponseWriter, r *http.Request) {
	a, b := chi.URLParam(r, "a"), chi.URLParam(r, "b")
	ids, err := s.store.CommonFollowers(r.Context(), a, b)
	s.writeUsers(w, r, "common followers of "+a+" and "+b, ids, err)
}

func (s *Server) writeUsers(w http.ResponseWriter, r *http.Request, ref string, ids []string, err error) {
	if err != nil {
		s.writeError(r.Context(), w, err)
		return
	}
	users, err := s.store.Users(r.Context(), ref, ids)
	if err != nil {
		s.writeError(r.Context(), w, err)
		return
	}
	s.writeJSON(r.Context(), w, http.StatusOK, users)
}
