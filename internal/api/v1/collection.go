package v1

import (
	"errors"
	"net/http"
	"strings"

	"github.com/vmunix/seasonarr/internal/catalog"
	"github.com/vmunix/seasonarr/internal/events"
	"github.com/vmunix/seasonarr/pkg/titleclean"
)

var errSeriesNotFound = errors.New("series not found")

func (s *Server) getCollection(w http.ResponseWriter, r *http.Request) {
	doc, err := s.deps.Catalog.Load()
	if err != nil {
		s.log.Error("load catalog", "error", err)
		writeError(w, http.StatusInternalServerError, "CATALOG_ERROR", err.Error())
		return
	}
	writeJSON(w, http.StatusOK, doc)
}

func (s *Server) putCollection(w http.ResponseWriter, r *http.Request) {
	var doc catalog.Document
	if !decodeBody(w, r, &doc) {
		return
	}
	if doc.Series == nil {
		doc.Series = []catalog.Series{}
	}

	s.mu.Lock()
	err := s.deps.Catalog.Save(&doc)
	s.mu.Unlock()
	if err != nil {
		s.log.Error("save catalog", "error", err)
		writeError(w, http.StatusInternalServerError, "CATALOG_ERROR", err.Error())
		return
	}

	s.metrics.CollectionSaves.WithLabelValues("collection").Inc()
	series, seasons, episodes := countTree(&doc)
	s.log.Info("collection saved", "series", series, "seasons", seasons, "episodes", episodes)
	s.publish(r.Context(), events.NewCollectionSaved(series, seasons, episodes))

	writeJSON(w, http.StatusOK, successResponse{Success: true})
}

func (s *Server) getSeries(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	doc, err := s.deps.Catalog.Load()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "CATALOG_ERROR", err.Error())
		return
	}
	for _, series := range doc.Series {
		if series.ID == id {
			writeJSON(w, http.StatusOK, series)
			return
		}
	}
	writeError(w, http.StatusNotFound, "SERIES_NOT_FOUND", "Series not found")
}

// putSeries replaces one series in the stored document. The body id may be
// omitted; if present it must match the path.
func (s *Server) putSeries(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	var series catalog.Series
	if !decodeBody(w, r, &series) {
		return
	}
	switch strings.TrimSpace(series.ID) {
	case "":
		series.ID = id
	case id:
	default:
		writeError(w, http.StatusBadRequest, "ID_MISMATCH", "series id does not match path")
		return
	}
	series.Normalize()

	s.mu.Lock()
	doc, err := s.deps.Catalog.Load()
	if err == nil {
		err = errSeriesNotFound
		for i := range doc.Series {
			if doc.Series[i].ID == id {
				doc.Series[i] = series
				err = s.deps.Catalog.Save(doc)
				break
			}
		}
	}
	s.mu.Unlock()

	switch {
	case errors.Is(err, errSeriesNotFound):
		writeError(w, http.StatusNotFound, "SERIES_NOT_FOUND", "Series not found")
		return
	case err != nil:
		s.log.Error("save series", "series", id, "error", err)
		writeError(w, http.StatusInternalServerError, "CATALOG_ERROR", err.Error())
		return
	}

	s.metrics.CollectionSaves.WithLabelValues("series").Inc()
	s.publish(r.Context(), &events.SeriesUpdated{
		BaseEvent: events.NewBaseEvent(events.EventSeriesUpdated, events.EntitySeries, id),
		SeriesID:  id,
		Title:     series.Title,
		Seasons:   len(series.Seasons),
	})
	writeJSON(w, http.StatusOK, successResponse{Success: true})
}

func (s *Server) cleanTitle(w http.ResponseWriter, r *http.Request) {
	var req CleanTitleRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Title == nil {
		writeError(w, http.StatusBadRequest, "TITLE_REQUIRED", "title is required")
		return
	}

	original := *req.Title
	cleaned := titleclean.Clean(original)
	s.metrics.TitlesCleaned.Inc()
	if cleaned != original {
		entityType, entityID := events.EntityCollection, events.EntityCollection
		if req.SeriesID != "" {
			entityType, entityID = events.EntitySeries, req.SeriesID
		}
		s.publish(r.Context(), &events.TitleCleaned{
			BaseEvent: events.NewBaseEvent(events.EventTitleCleaned, entityType, entityID),
			Original:  original,
			Cleaned:   cleaned,
		})
	}
	writeJSON(w, http.StatusOK, CleanTitleResponse{Cleaned: cleaned})
}
