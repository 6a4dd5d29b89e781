package handler

import (
	"github.com/animecatalog/catalog-api/internal/core/domain"
	"github.com/animecatalog/catalog-api/internal/core/ports"
)

// --- Request → Service input ---

func toCreateInput(req createEntryRequest, idempotencyKey string) ports.CreateEntryInput {
	return ports.CreateEntryInput{
		Name:           req.Name,
		IdempotencyKey: idempotencyKey,
	}
}

func toReplaceInput(req replaceEntryRequest) ports.ReplaceEntryInput {
	return ports.ReplaceEntryInput{
		ID:   req.ID,
		Name: req.Name,
	}
}

// --- Domain → Response ---

func toEntryResponse(e domain.Entry) entryResponse {
	return entryResponse{ID: e.ID, Name: e.Name}
}

func toEntryResponses(entries []domain.Entry) []entryResponse {
	out := make([]entryResponse, 0, len(entries))
	for _, e := range entries {
		out = append(out, toEntryResponse(e))
	}
	return out
}

func toPageResponse(p *domain.EntryPage) pageResponse {
	content := toEntryResponses(p.Content)
	return pageResponse{
		Content:          content,
		TotalElements:    p.TotalElements,
		TotalPages:       p.TotalPages(),
		Number:           p.Request.Page,
		Size:             p.Request.Size,
		NumberOfElements: len(content),
		First:            p.Request.Page == 0,
		Last:             p.IsLast(),
		Empty:            len(content) == 0,
	}
}
