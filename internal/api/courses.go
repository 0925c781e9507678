package api

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"traindesk/internal/auth"
	"traindesk/internal/media"
	"traindesk/internal/model"
	"traindesk/internal/preview"
)

func (s *Server) handleListCourses(w http.ResponseWriter, r *http.Request) {
	positionID := r.URL.Query().Get("position")
	if positionID == "" {
		positionID = r.URL.Query().Get("positionId")
	}
	courses, err := s.courses.List(r.Context(), positionID)
	if err != nil {
		s.respondRepoError(w, err)
		return
	}
	if courses == nil {
		courses = []model.Course{}
	}
	s.respondJSON(w, http.StatusOK, courses)
}

func (s *Server) handleGetCourse(w http.ResponseWriter, r *http.Request) {
	course, err := s.courses.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.respondRepoError(w, err)
		return
	}
	s.respondJSON(w, http.StatusOK, course)
}

// questionView hides the correct answer from quiz takers.
type questionView struct {
	ID      string   `json:"id"`
	Prompt  string   `json:"question"`
	Options []string `json:"options"`
}

func (s *Server) handleCourseQuestions(w http.ResponseWriter, r *http.Request) {
	questions, err := s.courses.Questions(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.respondRepoError(w, err)
		return
	}
	session, _ := auth.FromContext(r.Context())
	if session.IsAdmin() {
		if questions == nil {
			questions = []model.Question{}
		}
		s.respondJSON(w, http.StatusOK, questions)
		return
	}
	views := make([]questionView, 0, len(questions))
	for _, q := range questions {
		views = append(views, questionView{ID: q.ID, Prompt: q.Prompt, Options: q.Options})
	}
	s.respondJSON(w, http.StatusOK, views)
}

// parseCourseForm reads the multipart course form shared by create and update.
// A videoFile part takes priority over the videoUrl field; the uploaded file
// goes through the gateway and its delivery URL becomes the course video.
func (s *Server) parseCourseForm(w http.ResponseWriter, r *http.Request, c *model.Course) (ok bool) {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes+1024)
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		s.respondError(w, http.StatusBadRequest, "expecting multipart form")
		return false
	}
	c.Title = r.FormValue("title")
	c.Description = r.FormValue("description")
	if c.Title == "" {
		s.respondError(w, http.StatusBadRequest, "title is required")
		return false
	}
	if v := r.FormValue("positionId"); v != "" {
		c.PositionID = &v
	}
	c.Attempts = 3
	if v := r.FormValue("attempts"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			c.Attempts = n
		}
	}
	if v := r.FormValue("timeLimitMinutes"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			c.TimeLimitMinutes = n
		}
	}
	if v := r.FormValue("questions"); v != "" {
		if err := json.Unmarshal([]byte(v), &c.Questions); err != nil {
			s.respondError(w, http.StatusBadRequest, "invalid questions payload")
			return false
		}
		for i := range c.Questions {
			if c.Questions[i].ID == "" {
				c.Questions[i].ID = uuid.NewString()
			}
		}
	}
	c.VideoURL = r.FormValue("videoUrl")
	// YouTube links are stored in their embeddable form.
	if cls := preview.Classify(c.VideoURL, ""); cls.Kind == preview.KindYouTube {
		c.VideoURL = preview.EmbedURL(cls.YouTubeID)
	}
	if file, header, err := r.FormFile("videoFile"); err == nil {
		defer file.Close()
		session, _ := auth.FromContext(r.Context())
		up, err := readFormFile(file, header)
		if err != nil {
			s.respondError(w, http.StatusBadRequest, err.Error())
			return false
		}
		result, err := s.uploadAndRecord(r, up, session.UserID)
		if err != nil {
			s.respondMediaError(w, err)
			return false
		}
		c.VideoURL = result.URL
	}
	return true
}

func (s *Server) handleCreateCourse(w http.ResponseWriter, r *http.Request) {
	course := &model.Course{ID: uuid.NewString()}
	if !s.parseCourseForm(w, r, course) {
		return
	}
	if err := s.courses.Create(r.Context(), course); err != nil {
		s.respondRepoError(w, err)
		return
	}
	s.respondJSON(w, http.StatusCreated, course)
}

func (s *Server) handleUpdateCourse(w http.ResponseWriter, r *http.Request) {
	course := &model.Course{ID: chi.URLParam(r, "id")}
	if !s.parseCourseForm(w, r, course) {
		return
	}
	if err := s.courses.Update(r.Context(), course); err != nil {
		s.respondRepoError(w, err)
		return
	}
	s.respondJSON(w, http.StatusOK, course)
}

func (s *Server) handleDeleteCourse(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	course, err := s.courses.Get(r.Context(), id)
	if err != nil {
		s.respondRepoError(w, err)
		return
	}
	// Best effort cleanup of a gateway-hosted video; YouTube links parse to nil.
	if s.gateway.Configured() {
		if ref := media.ParseReference(course.VideoURL); ref != nil {
			if err := s.gateway.Delete(r.Context(), course.VideoURL, ""); err != nil {
				s.log.Warn("delete hosted video", zap.Error(err))
			}
			_ = s.assets.DeleteByPublicID(r.Context(), ref.PublicID)
		}
	}
	if err := s.courses.Delete(r.Context(), id); err != nil {
		s.respondRepoError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type attemptRequest struct {
	Answers []int `json:"answers"`
}

func (s *Server) handleSubmitAttempt(w http.ResponseWriter, r *http.Request) {
	courseID := chi.URLParam(r, "id")
	session, _ := auth.FromContext(r.Context())
	var req attemptRequest
	if err := decodeJSON(r, &req); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	course, err := s.courses.Get(r.Context(), courseID)
	if err != nil {
		s.respondRepoError(w, err)
		return
	}
	used, err := s.courses.CountAttempts(r.Context(), courseID, session.UserID)
	if err != nil {
		s.respondRepoError(w, err)
		return
	}
	if used >= course.Attempts {
		s.respondError(w, http.StatusForbidden, "no attempts left")
		return
	}
	questions, err := s.courses.Questions(r.Context(), courseID)
	if err != nil {
		s.respondRepoError(w, err)
		return
	}
	if len(questions) == 0 {
		s.respondError(w, http.StatusBadRequest, "course has no quiz")
		return
	}
	score, total, status := model.Grade(questions, req.Answers)
	attempt := &model.Attempt{
		ID:       uuid.NewString(),
		CourseID: courseID,
		UserID:   session.UserID,
		Score:    score,
		Total:    total,
		Status:   status,
	}
	if err := s.courses.RecordAttempt(r.Context(), attempt); err != nil {
		s.respondRepoError(w, err)
		return
	}
	s.respondJSON(w, http.StatusCreated, attempt)
}

func (s *Server) handleProgressAll(w http.ResponseWriter, r *http.Request) {
	entries, err := s.courses.ProgressAll(r.Context())
	if err != nil {
		s.respondRepoError(w, err)
		return
	}
	if entries == nil {
		entries = []model.ProgressEntry{}
	}
	s.respondJSON(w, http.StatusOK, entries)
}
