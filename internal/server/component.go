package server

import (
	"net/http"
	"strings"

	"sponsors/internal/utils"
	"sponsors/pkg/types"
)

const componentName = "SponsorsComponent"

// Component describes the sponsors component for a host page builder:
// where its data lives and which display flags it accepts.
func (s *Service) Component() *types.ComponentDescriptor {
	flags := utils.TagValues(types.ComponentDisplay{}, "form")

	descriptor := &types.ComponentDescriptor{
		Name:     componentName,
		DataPath: strings.TrimSuffix(s.config.MountPrefix, "/") + "/component/",
		Flags:    make([]types.ComponentFlag, 0, len(flags)),
	}
	for _, name := range flags {
		descriptor.Flags = append(descriptor.Flags, types.ComponentFlag{Name: name})
	}

	return descriptor
}

// handleGetComponent assembles the component aggregate. Display flags
// default to false and may be switched on through the query string.
func (s *Service) handleGetComponent(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var display types.ComponentDisplay
	if err := decoder.Decode(&display, r.URL.Query()); err != nil {
		s.writeError(w, http.StatusUnprocessableEntity, "Invalid display flags")
		return
	}

	sponsors, err := s.sponsorsRepo.Sponsors(ctx)
	if err != nil {
		s.requestLogger(r).WithError(err).Error("failed to list sponsors for component")
		s.internalServerError(w)
		return
	}

	levels, err := s.levelsRepo.Levels(ctx)
	if err != nil {
		s.requestLogger(r).WithError(err).Error("failed to list levels for component")
		s.internalServerError(w)
		return
	}

	component := types.SponsorsComponent{
		Sponsors:         sponsors,
		Levels:           levels,
		ComponentDisplay: display,
	}
	if component.Sponsors == nil {
		component.Sponsors = []*types.Sponsor{}
	}
	if component.Levels == nil {
		component.Levels = []*types.Level{}
	}

	s.writeJSON(w, http.StatusOK, component)
}

func (s *Service) handleGetComponentSchema(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, s.Component())
}
