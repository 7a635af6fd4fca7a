package server

import (
	"errors"
	"net/http"
	"strings"

	"sponsors/pkg/types"
)

func (s *Service) handleListLevels(w http.ResponseWriter, r *http.Request) {
	levels, err := s.levelsRepo.Levels(r.Context())
	if err != nil {
		s.requestLogger(r).WithError(err).Error("failed to list levels")
		s.internalServerError(w)
		return
	}

	if levels == nil {
		levels = []*types.Level{}
	}

	s.writeJSON(w, http.StatusOK, levels)
}

func (s *Service) handleGetLevel(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		s.writeError(w, http.StatusNotFound, "Level not found")
		return
	}

	level, err := s.levelsRepo.Level(r.Context(), id)
	if err != nil {
		if errors.Is(err, types.ErrLevelNotFound) {
			s.writeError(w, http.StatusNotFound, "Level not found")
			return
		}
		s.requestLogger(r).WithError(err).WithField("level_id", id).Error("failed to load level")
		s.internalServerError(w)
		return
	}

	s.writeJSON(w, http.StatusOK, level)
}

func (s *Service) handleCreateLevel(w http.ResponseWriter, r *http.Request) {
	var input types.LevelCreate
	if err := decodeJSON(w, r, &input); err != nil {
		s.writeError(w, http.StatusUnprocessableEntity, "Invalid request body")
		return
	}

	if errs := input.Validate(); len(errs) > 0 {
		s.writeValidationError(w, errs)
		return
	}

	level := &types.Level{Name: strings.TrimSpace(input.Name), Sponsors: []*types.Sponsor{}}

	if err := s.levelsRepo.CreateLevel(r.Context(), level); err != nil {
		s.requestLogger(r).WithError(err).Error("failed to create level")
		s.internalServerError(w)
		return
	}

	s.requestLogger(r).WithField("level_id", level.ID).Info("level created")

	s.writeJSON(w, http.StatusOK, level)
}

func (s *Service) handleUpdateLevel(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, err := idParam(r)
	if err != nil {
		s.writeError(w, http.StatusNotFound, "Level not found")
		return
	}

	var input types.LevelUpdate
	if err := decodeJSON(w, r, &input); err != nil {
		s.writeError(w, http.StatusUnprocessableEntity, "Invalid request body")
		return
	}

	if errs := input.Validate(); len(errs) > 0 {
		s.writeValidationError(w, errs)
		return
	}

	level, err := s.levelsRepo.Level(ctx, id)
	if err != nil {
		if errors.Is(err, types.ErrLevelNotFound) {
			s.writeError(w, http.StatusNotFound, "Level not found")
			return
		}
		s.requestLogger(r).WithError(err).WithField("level_id", id).Error("failed to load level")
		s.internalServerError(w)
		return
	}

	input.Apply(level)

	if err := s.levelsRepo.UpdateLevel(ctx, level); err != nil {
		if errors.Is(err, types.ErrLevelNotFound) {
			s.writeError(w, http.StatusNotFound, "Level not found")
			return
		}
		s.requestLogger(r).WithError(err).WithField("level_id", id).Error("failed to update level")
		s.internalServerError(w)
		return
	}

	s.writeJSON(w, http.StatusOK, level)
}

func (s *Service) handleDeleteLevel(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		s.writeError(w, http.StatusNotFound, "Level not found")
		return
	}

	level, err := s.levelsRepo.DeleteLevel(r.Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, types.ErrLevelNotFound):
			s.writeError(w, http.StatusNotFound, "Level not found")
		case errors.Is(err, types.ErrLevelHasSponsors):
			s.writeError(w, http.StatusConflict, "Level has sponsors")
		default:
			s.requestLogger(r).WithError(err).WithField("level_id", id).Error("failed to delete level")
			s.internalServerError(w)
		}
		return
	}

	s.requestLogger(r).WithField("level_id", id).Info("level deleted")

	s.writeJSON(w, http.StatusOK, level)
}
