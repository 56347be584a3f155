package service

import (
	"context"
	"fmt"

	"github.com/set-night/earnhub/internal/domain"
)

type OpportunityService struct {
	store OpportunityStore
}

func NewOpportunityService(store OpportunityStore) *OpportunityService {
	return &OpportunityService{store: store}
}

func (s *OpportunityService) List(ctx context.Context) ([]*domain.Opportunity, error) {
	return s.store.ListOpportunities(ctx)
}

func (s *OpportunityService) Get(ctx context.Context, id int64) (*domain.Opportunity, error) {
	return s.store.GetOpportunity(ctx, id)
}

// Create builds an opportunity from form values keyed by field name.
func (s *OpportunityService) Create(ctx context.Context, values map[string]string) (*domain.Opportunity, error) {
	o := &domain.Opportunity{}
	for _, spec := range domain.OpportunityFields {
		if err := applyField(spec, values[spec.Name], func(v string) error {
			return o.Set(domain.OpportunityField(spec.Name), v)
		}); err != nil {
			return nil, err
		}
	}

	if err := s.store.CreateOpportunity(ctx, o); err != nil {
		return nil, fmt.Errorf("create opportunity: %w", err)
	}
	return o, nil
}

// UpdateField changes one field of an existing opportunity.
func (s *OpportunityService) UpdateField(ctx context.Context, id int64, field, raw string) (*domain.Opportunity, error) {
	spec, ok := domain.LookupField(domain.OpportunityFields, field)
	if !ok {
		return nil, fmt.Errorf("opportunity field %q: %w", field, domain.ErrUnknownField)
	}

	o, err := s.store.GetOpportunity(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := applyField(spec, raw, func(v string) error {
		return o.Set(domain.OpportunityField(spec.Name), v)
	}); err != nil {
		return nil, err
	}

	if err := s.store.UpdateOpportunity(ctx, o); err != nil {
		return nil, fmt.Errorf("update opportunity: %w", err)
	}
	return o, nil
}

func (s *OpportunityService) Delete(ctx context.Context, id int64) error {
	return s.store.DeleteOpportunity(ctx, id)
}
