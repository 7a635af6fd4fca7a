package server

import (
	"errors"
	"net/http"

	"sponsors/pkg/types"

	"github.com/sirupsen/logrus"
)

func (s *Service) handleListSponsors(w http.ResponseWriter, r *http.Request) {
	sponsors, err := s.sponsorsRepo.Sponsors(r.Context())
	if err != nil {
		s.requestLogger(r).WithError(err).Error("failed to list sponsors")
		s.internalServerError(w)
		return
	}

	if sponsors == nil {
		sponsors = []*types.Sponsor{}
	}

	s.writeJSON(w, http.StatusOK, sponsors)
}

func (s *Service) handleCreateSponsor(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var input types.SponsorCreate
	if err := decodeJSON(w, r, &input); err != nil {
		s.writeError(w, http.StatusUnprocessableEntity, "Invalid request body")
		return
	}

	if errs := input.Validate(); len(errs) > 0 {
		s.writeValidationError(w, errs)
		return
	}

	sponsor := input.Sponsor()

	logo, err := s.logos.Resolve(ctx, sponsor.Name, sponsor.LogoURL)
	if err != nil {
		s.requestLogger(r).WithError(err).Error("failed to resolve sponsor logo")
		s.internalServerError(w)
		return
	}
	sponsor.LogoURL = logo

	if err := s.sponsorsRepo.CreateSponsor(ctx, sponsor); err != nil {
		if errors.Is(err, types.ErrUnknownLevel) {
			s.writeValidationError(w, map[string]string{"level_id": "Level does not exist."})
			return
		}
		s.requestLogger(r).WithError(err).Error("failed to create sponsor")
		s.internalServerError(w)
		return
	}

	s.requestLogger(r).WithFields(logrus.Fields{
		"sponsor_id": sponsor.ID,
		"level_id":   sponsor.LevelID,
	}).Info("sponsor created")

	s.writeJSON(w, http.StatusOK, sponsor)
}

func (s *Service) handleUpdateSponsor(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, err := idParam(r)
	if err != nil {
		s.writeError(w, http.StatusNotFound, "Sponsor not found")
		return
	}

	var input types.SponsorUpdate
	if err := decodeJSON(w, r, &input); err != nil {
		s.writeError(w, http.StatusUnprocessableEntity, "Invalid request body")
		return
	}

	if errs := input.Validate(); len(errs) > 0 {
		s.writeValidationError(w, errs)
		return
	}

	sponsor, err := s.sponsorsRepo.Sponsor(ctx, id)
	if err != nil {
		if errors.Is(err, types.ErrSponsorNotFound) {
			s.writeError(w, http.StatusNotFound, "Sponsor not found")
			return
		}
		s.requestLogger(r).WithError(err).WithField("sponsor_id", id).Error("failed to load sponsor")
		s.internalServerError(w)
		return
	}

	input.Apply(sponsor)

	// An explicit null clears the logo; only a supplied value is resolved.
	if input.LogoURL.Set && input.LogoURL.Value != nil {
		logo, err := s.logos.Resolve(ctx, sponsor.Name, input.LogoURL.Value)
		if err != nil {
			s.requestLogger(r).WithError(err).WithField("sponsor_id", id).Error("failed to resolve sponsor logo")
			s.internalServerError(w)
			return
		}
		sponsor.LogoURL = logo
	}

	if err := s.sponsorsRepo.UpdateSponsor(ctx, sponsor); err != nil {
		switch {
		case errors.Is(err, types.ErrSponsorNotFound):
			s.writeError(w, http.StatusNotFound, "Sponsor not found")
		case errors.Is(err, types.ErrUnknownLevel):
			s.writeValidationError(w, map[string]string{"level_id": "Level does not exist."})
		default:
			s.requestLogger(r).WithError(err).WithField("sponsor_id", id).Error("failed to update sponsor")
			s.internalServerError(w)
		}
		return
	}

	s.writeJSON(w, http.StatusOK, sponsor)
}

func (s *Service) handleDeleteSponsor(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		s.writeError(w, http.StatusNotFound, "Sponsor not found")
		return
	}

	sponsor, err := s.sponsorsRepo.DeleteSponsor(r.Context(), id)
	if err != nil {
		if errors.Is(err, types.ErrSponsorNotFound) {
			s.writeError(w, http.StatusNotFound, "Sponsor not found")
			return
		}
		s.requestLogger(r).WithError(err).WithField("sponsor_id", id).Error("failed to delete sponsor")
		s.internalServerError(w)
		return
	}

	s.requestLogger(r).WithField("sponsor_id", id).Info("sponsor deleted")

	s.writeJSON(w, http.StatusOK, sponsor)
}
