package pricing

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/trading-system/backend/internal/domain/catalog"
	"github.com/trading-system/backend/internal/domain/pricing"
	"github.com/trading-system/backend/internal/domain/shared"
	"github.com/trading-system/backend/internal/infrastructure/logger"
	"go.uber.org/zap"
)

// ErrBelowCostNotAuthorized is returned when a base price under cost has no supplier authorization
var ErrBelowCostNotAuthorized = shared.NewDomainError("BELOW_COST_NOT_AUTHORIZED",
	"Base price cannot be lower than current cost without a supplier discount authorization")

// AdminService manages price entries and pricing rules. Every mutation and
// its audit record are written in the same transaction.
type AdminService struct {
	txm            shared.TransactionManager
	articles       catalog.ArticleRepository
	priceLists     pricing.PriceListRepository
	prices         pricing.ArticlePriceRepository
	rules          pricing.RuleRepository
	audit          pricing.AuditRepository
	authorizations pricing.AuthorizationRepository
	today          func() time.Time
}

// AdminServiceDeps groups the collaborators of AdminService
type AdminServiceDeps struct {
	TxManager      shared.TransactionManager
	Articles       catalog.ArticleRepository
	PriceLists     pricing.PriceListRepository
	Prices         pricing.ArticlePriceRepository
	Rules          pricing.RuleRepository
	Audit          pricing.AuditRepository
	Authorizations pricing.AuthorizationRepository
	// Today defaults to the current UTC date
	Today func() time.Time
}

// NewAdminService creates a new AdminService
func NewAdminService(deps AdminServiceDeps) *AdminService {
	today := deps.Today
	if today == nil {
		today = func() time.Time { return pricing.Date(time.Now()) }
	}
	return &AdminService{
		txm:            deps.TxManager,
		articles:       deps.Articles,
		priceLists:     deps.PriceLists,
		prices:         deps.Prices,
		rules:          deps.Rules,
		audit:          deps.Audit,
		authorizations: deps.Authorizations,
		today:          today,
	}
}

// UpsertArticlePrice creates or replaces the price of an article in a list.
// A base price change is recorded in the price history.
func (s *AdminService) UpsertArticlePrice(ctx context.Context, rc shared.RequestContext, priceListID, articleID uuid.UUID, req UpsertPriceRequest) (*ArticlePriceResponse, error) {
	status := pricing.StatusActive
	if req.Status != "" {
		status = pricing.Status(req.Status)
		if !status.IsValid() {
			return nil, shared.NewDomainError("INVALID_STATUS", "Status must be active or inactive")
		}
	}

	var saved *pricing.ArticlePrice
	err := s.txm.WithinTransaction(ctx, func(ctx context.Context) error {
		priceList, err := s.priceLists.FindByID(ctx, priceListID)
		if err != nil {
			return err
		}
		article, err := s.articles.FindByID(ctx, articleID)
		if err != nil {
			return err
		}
		if err := s.checkCost(ctx, article, req.BasePrice); err != nil {
			return err
		}

		entry, err := s.prices.FindByListAndArticle(ctx, priceList.ID, article.ID)
		created := false
		oldPrice := decimal.Zero
		switch {
		case errors.Is(err, pricing.ErrArticlePriceNotFound):
			entry, err = pricing.NewArticlePrice(rc.TenantID, priceList.ID, article.ID, req.BasePrice, req.MinimumPrice)
			if err != nil {
				return err
			}
			created = true
		case err != nil:
			return err
		default:
			oldPrice, err = entry.Reprice(req.BasePrice, req.MinimumPrice)
			if err != nil {
				return err
			}
			entry.Touch()
		}
		entry.Status = status

		if err := s.prices.Save(ctx, entry); err != nil {
			return err
		}
		if h := pricing.NewPriceHistory(rc, entry, oldPrice, created); h != nil {
			if err := s.audit.SavePriceHistory(ctx, h); err != nil {
				return err
			}
		}
		saved = entry
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.L(ctx).Info("Article price saved",
		zap.String("price_list_id", priceListID.String()),
		zap.String("article_id", articleID.String()),
		zap.String("base_price", saved.BasePrice.String()),
	)
	resp := ToArticlePriceResponse(saved)
	return &resp, nil
}

func (s *AdminService) checkCost(ctx context.Context, article *catalog.Article, base decimal.Decimal) error {
	if !base.LessThan(article.CurrentCost) {
		return nil
	}
	if s.authorizations == nil {
		return ErrBelowCostNotAuthorized
	}
	ok, err := s.authorizations.HasActive(ctx, article, s.today())
	if err != nil {
		return err
	}
	if !ok {
		return ErrBelowCostNotAuthorized
	}
	return nil
}

// PriceHistory lists the base price changes of an article in a list
func (s *AdminService) PriceHistory(ctx context.Context, priceListID, articleID uuid.UUID) ([]PriceHistoryResponse, error) {
	history, err := s.audit.ListPriceHistory(ctx, priceListID, articleID)
	if err != nil {
		return nil, err
	}
	out := make([]PriceHistoryResponse, len(history))
	for i, h := range history {
		out[i] = PriceHistoryResponse{OldPrice: h.OldPrice, NewPrice: h.NewPrice, ChangedAt: h.ChangedAt, UserID: h.UserID, Reason: h.Reason}
	}
	return out, nil
}

// CreateRule validates and stores a new pricing rule
func (s *AdminService) CreateRule(ctx context.Context, rc shared.RequestContext, req RuleRequest) (*RuleResponse, error) {
	spec, err := toRuleSpec(req)
	if err != nil {
		return nil, err
	}

	var rule *pricing.PricingRule
	err = s.txm.WithinTransaction(ctx, func(ctx context.Context) error {
		if _, err := s.priceLists.FindByID(ctx, spec.PriceListID); err != nil {
			return err
		}
		rule, err = pricing.NewPricingRule(rc.TenantID, spec)
		if err != nil {
			return err
		}
		if err := s.rules.Save(ctx, rule); err != nil {
			return err
		}
		after := rule.Snapshot()
		return s.recordRuleChange(ctx, rc, pricing.AuditActionCreate, rule.ID, nil, &after)
	})
	if err != nil {
		return nil, err
	}

	logger.L(ctx).Info("Pricing rule created", zap.String("rule_id", rule.ID.String()), zap.String("code", rule.Code))
	resp := ToRuleResponse(rule)
	return &resp, nil
}

// UpdateRule replaces the attributes of a rule
func (s *AdminService) UpdateRule(ctx context.Context, rc shared.RequestContext, id uuid.UUID, req RuleRequest) (*RuleResponse, error) {
	spec, err := toRuleSpec(req)
	if err != nil {
		return nil, err
	}
	return s.mutateRule(ctx, rc, id, func(ctx context.Context, r *pricing.PricingRule) error {
		if spec.PriceListID != r.PriceListID {
			if _, err := s.priceLists.FindByID(ctx, spec.PriceListID); err != nil {
				return err
			}
		}
		return r.Update(spec)
	})
}

// ActivateRule marks a rule as active
func (s *AdminService) ActivateRule(ctx context.Context, rc shared.RequestContext, id uuid.UUID) (*RuleResponse, error) {
	return s.mutateRule(ctx, rc, id, func(_ context.Context, r *pricing.PricingRule) error {
		return r.Activate()
	})
}

// DeactivateRule marks a rule as inactive
func (s *AdminService) DeactivateRule(ctx context.Context, rc shared.RequestContext, id uuid.UUID) (*RuleResponse, error) {
	return s.mutateRule(ctx, rc, id, func(_ context.Context, r *pricing.PricingRule) error {
		return r.Deactivate()
	})
}

func (s *AdminService) mutateRule(ctx context.Context, rc shared.RequestContext, id uuid.UUID, mutate func(context.Context, *pricing.PricingRule) error) (*RuleResponse, error) {
	var rule *pricing.PricingRule
	err := s.txm.WithinTransaction(ctx, func(ctx context.Context) error {
		var err error
		rule, err = s.rules.FindByID(ctx, id)
		if err != nil {
			return err
		}
		before := rule.Snapshot()
		if err := mutate(ctx, rule); err != nil {
			return err
		}
		if err := s.rules.Save(ctx, rule); err != nil {
			return err
		}
		after := rule.Snapshot()
		return s.recordRuleChange(ctx, rc, pricing.AuditActionUpdate, rule.ID, &before, &after)
	})
	if err != nil {
		return nil, err
	}
	resp := ToRuleResponse(rule)
	return &resp, nil
}

// DeleteRule removes a rule, keeping its last state in the audit trail
func (s *AdminService) DeleteRule(ctx context.Context, rc shared.RequestContext, id uuid.UUID) error {
	err := s.txm.WithinTransaction(ctx, func(ctx context.Context) error {
		rule, err := s.rules.FindByID(ctx, id)
		if err != nil {
			return err
		}
		before := rule.Snapshot()
		if err := s.rules.Delete(ctx, id); err != nil {
			return err
		}
		return s.recordRuleChange(ctx, rc, pricing.AuditActionDelete, id, &before, nil)
	})
	if err != nil {
		return err
	}
	logger.L(ctx).Info("Pricing rule deleted", zap.String("rule_id", id.String()))
	return nil
}

func (s *AdminService) recordRuleChange(ctx context.Context, rc shared.RequestContext, action pricing.AuditAction, ruleID uuid.UUID, before, after *pricing.RuleSnapshot) error {
	audit, err := pricing.NewRuleAudit(rc, action, ruleID, before, after)
	if err != nil || audit == nil {
		return err
	}
	return s.audit.SaveRuleAudit(ctx, audit)
}

// GetRule returns a rule by ID
func (s *AdminService) GetRule(ctx context.Context, id uuid.UUID) (*RuleResponse, error) {
	rule, err := s.rules.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToRuleResponse(rule)
	return &resp, nil
}

// RuleAudits lists the recorded changes of a rule
func (s *AdminService) RuleAudits(ctx context.Context, ruleID uuid.UUID) ([]RuleAuditResponse, error) {
	audits, err := s.audit.ListRuleAudits(ctx, ruleID)
	if err != nil {
		return nil, err
	}
	out := make([]RuleAuditResponse, len(audits))
	for i, a := range audits {
		out[i] = RuleAuditResponse{
			Action:    string(a.Action),
			Before:    a.Before,
			After:     a.After,
			ChangedAt: a.ChangedAt,
			UserID:    a.UserID,
			Reason:    a.Reason,
		}
	}
	return out, nil
}

// ListActiveRules returns the active rules of a list valid on the date, by priority
func (s *AdminService) ListActiveRules(ctx context.Context, priceListID uuid.UUID, date string) ([]RuleResponse, error) {
	on, err := ParseDate(date)
	if err != nil {
		return nil, err
	}
	if on.IsZero() {
		on = s.today()
	}
	priceList, err := s.priceLists.FindByID(ctx, priceListID)
	if err != nil {
		return nil, err
	}
	rules, err := s.rules.FindApplicable(ctx, priceList.ID, on)
	if err != nil {
		return nil, err
	}
	return ToRuleResponses(rules), nil
}

// ListCurrentPriceLists returns the active price lists in force on the date
func (s *AdminService) ListCurrentPriceLists(ctx context.Context, tenantID uuid.UUID, filter PriceListFilter) ([]PriceListResponse, error) {
	on, err := ParseDate(filter.Date)
	if err != nil {
		return nil, err
	}
	if on.IsZero() {
		on = s.today()
	}
	var channel pricing.Channel
	if filter.Channel != "" {
		if channel, err = pricing.ParseChannel(filter.Channel); err != nil {
			return nil, err
		}
	}

	lists, err := s.priceLists.FindCurrent(ctx, pricing.CurrentListFilter{
		TenantID: tenantID,
		BranchID: filter.BranchID,
		Channel:  channel,
		On:       on,
	})
	if err != nil {
		return nil, err
	}
	out := make([]PriceListResponse, len(lists))
	for i, l := range lists {
		out[i] = ToPriceListResponse(l)
	}
	return out, nil
}

func toRuleSpec(req RuleRequest) (pricing.RuleSpec, error) {
	from, err := ParseDate(req.ValidFrom)
	if err != nil {
		return pricing.RuleSpec{}, err
	}
	to, err := ParseDate(req.ValidTo)
	if err != nil {
		return pricing.RuleSpec{}, err
	}
	var channel pricing.Channel
	if req.Channel != "" {
		if channel, err = pricing.ParseChannel(req.Channel); err != nil {
			return pricing.RuleSpec{}, err
		}
	}
	return pricing.RuleSpec{
		PriceListID:  req.PriceListID,
		Code:         req.Code,
		Kind:         pricing.RuleKind(req.Kind),
		Priority:     req.Priority,
		Channel:      channel,
		LineID:       req.LineID,
		GroupID:      req.GroupID,
		ArticleID:    req.ArticleID,
		MinQuantity:  req.MinQuantity,
		MinAmount:    req.MinAmount,
		DiscountType: pricing.DiscountType(req.DiscountType),
		Direction:    pricing.Direction(req.Direction),
		Value:        req.Value,
		ValidFrom:    from,
		ValidTo:      to,
		Description:  req.Description,
	}, nil
}
