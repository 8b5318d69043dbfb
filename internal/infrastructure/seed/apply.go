package seed

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/trading-system/backend/internal/domain/catalog"
	"github.com/trading-system/backend/internal/domain/pricing"
	"github.com/trading-system/backend/internal/domain/shared/valueobject"
	"github.com/trading-system/backend/internal/infrastructure/logger"
	"github.com/trading-system/backend/internal/infrastructure/persistence"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// namespace for IDs derived from codes, so re-running a seed upserts instead of duplicating
var namespace = uuid.MustParse("6f1c1d2e-7a43-4b7e-9d55-0c6a2b8f4e10")

func idFor(tenantID uuid.UUID, kind, code string) uuid.UUID {
	return uuid.NewSHA1(namespace, []byte(tenantID.String()+"/"+kind+"/"+code))
}

// Result counts the upserted entities
type Result struct {
	Lines          int
	Groups         int
	Articles       int
	PriceLists     int
	Prices         int
	Rules          int
	Authorizations int
}

type applier struct {
	tenantID uuid.UUID
	articles *persistence.GormArticleRepository
	lists    *persistence.GormPriceListRepository
	prices   *persistence.GormArticlePriceRepository
	rules    *persistence.GormRuleRepository
	auths    *persistence.GormAuthorizationRepository

	lineIDs    map[string]uuid.UUID
	groupIDs   map[string]uuid.UUID
	articleIDs map[string]uuid.UUID
	result     Result
}

// Apply upserts the document in a single transaction
func Apply(ctx context.Context, db *gorm.DB, doc *Document) (*Result, error) {
	tenantID, err := uuid.Parse(doc.TenantID)
	if err != nil {
		return nil, fmt.Errorf("tenant_id: %w", err)
	}

	a := &applier{
		tenantID:   tenantID,
		articles:   persistence.NewGormArticleRepository(db),
		lists:      persistence.NewGormPriceListRepository(db),
		prices:     persistence.NewGormArticlePriceRepository(db),
		rules:      persistence.NewGormRuleRepository(db),
		auths:      persistence.NewGormAuthorizationRepository(db),
		lineIDs:    map[string]uuid.UUID{},
		groupIDs:   map[string]uuid.UUID{},
		articleIDs: map[string]uuid.UUID{},
	}

	err = persistence.NewTxManager(db).WithinTransaction(ctx, func(ctx context.Context) error {
		for _, l := range doc.Lines {
			if err := a.applyLine(ctx, l); err != nil {
				return err
			}
		}
		for _, pl := range doc.PriceLists {
			if err := a.applyPriceList(ctx, pl); err != nil {
				return err
			}
		}
		for i, auth := range doc.Authorizations {
			if err := a.applyAuthorization(ctx, i, auth); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.L(ctx).Info("Seed applied",
		zap.String("tenant_id", tenantID.String()),
		zap.Int("articles", a.result.Articles),
		zap.Int("price_lists", a.result.PriceLists),
		zap.Int("prices", a.result.Prices),
		zap.Int("rules", a.result.Rules))
	return &a.result, nil
}

func (a *applier) applyLine(ctx context.Context, l Line) error {
	line := catalog.Line{ID: idFor(a.tenantID, "line", l.Code), Code: l.Code, Name: l.Name, Status: catalog.StatusActive}
	if err := a.articles.SaveLine(ctx, a.tenantID, line); err != nil {
		return fmt.Errorf("line %s: %w", l.Code, err)
	}
	a.lineIDs[l.Code] = line.ID
	a.result.Lines++

	for _, g := range l.Groups {
		group := catalog.Group{ID: idFor(a.tenantID, "group", g.Code), Code: g.Code, Name: g.Name, LineID: line.ID, Status: catalog.StatusActive}
		if err := a.articles.SaveGroup(ctx, a.tenantID, group); err != nil {
			return fmt.Errorf("group %s: %w", g.Code, err)
		}
		a.groupIDs[g.Code] = group.ID
		a.result.Groups++

		for _, art := range g.Articles {
			if err := a.applyArticle(ctx, group, art); err != nil {
				return fmt.Errorf("article %s: %w", art.Code, err)
			}
		}
	}
	return nil
}

func (a *applier) applyArticle(ctx context.Context, group catalog.Group, in Article) error {
	article, err := catalog.NewArticle(a.tenantID, in.Code, in.Description, group)
	if err != nil {
		return err
	}
	article.ID = idFor(a.tenantID, "article", article.Code)
	article.Barcode = in.Barcode
	article.Unit = in.Unit

	cost, err := parseDecimal("cost", in.Cost)
	if err != nil {
		return err
	}
	if err := article.SetCost(cost); err != nil {
		return err
	}
	suggested, err := parseDecimal("suggested_price", in.SuggestedPrice)
	if err != nil {
		return err
	}
	if err := article.SetSuggestedPrice(suggested); err != nil {
		return err
	}

	if err := a.articles.Save(ctx, article); err != nil {
		return err
	}
	a.articleIDs[in.Code] = article.ID
	a.result.Articles++
	return nil
}

func (a *applier) applyPriceList(ctx context.Context, in PriceList) error {
	channel, err := pricing.ParseChannel(in.Channel)
	if err != nil {
		return fmt.Errorf("price list %s: %w", in.Code, err)
	}
	branchID, err := uuid.Parse(in.BranchID)
	if err != nil {
		return fmt.Errorf("price list %s branch_id: %w", in.Code, err)
	}
	from, err := parseDate("valid_from", in.ValidFrom)
	if err != nil {
		return fmt.Errorf("price list %s: %w", in.Code, err)
	}
	to, err := parseDate("valid_to", in.ValidTo)
	if err != nil {
		return fmt.Errorf("price list %s: %w", in.Code, err)
	}
	currency := valueobject.Currency(in.Currency)
	if currency == "" {
		currency = valueobject.DefaultCurrency
	}

	list, err := pricing.NewPriceList(a.tenantID, branchID, in.Code, in.Name, channel, currency, from, to)
	if err != nil {
		return fmt.Errorf("price list %s: %w", in.Code, err)
	}
	list.ID = idFor(a.tenantID, "price_list", list.Code)
	if err := a.lists.Save(ctx, list); err != nil {
		return err
	}
	a.result.PriceLists++

	for _, p := range in.Prices {
		if err := a.applyPrice(ctx, list, p); err != nil {
			return fmt.Errorf("price list %s article %s: %w", in.Code, p.Article, err)
		}
	}
	for _, r := range in.Rules {
		if err := a.applyRule(ctx, list, r); err != nil {
			return fmt.Errorf("price list %s rule %s: %w", in.Code, r.Code, err)
		}
	}
	return nil
}

func (a *applier) applyPrice(ctx context.Context, list *pricing.PriceList, in Price) error {
	articleID, ok := a.articleIDs[in.Article]
	if !ok {
		return errors.New("unknown article")
	}
	base, err := parseDecimal("base", in.Base)
	if err != nil {
		return err
	}
	minimum, err := parseDecimal("minimum", in.Minimum)
	if err != nil {
		return err
	}
	entry, err := pricing.NewArticlePrice(a.tenantID, list.ID, articleID, base, minimum)
	if err != nil {
		return err
	}
	entry.ID = idFor(a.tenantID, "article_price", list.Code+"/"+in.Article)
	if err := a.prices.Save(ctx, entry); err != nil {
		return err
	}
	a.result.Prices++
	return nil
}

func (a *applier) applyRule(ctx context.Context, list *pricing.PriceList, in Rule) error {
	spec := pricing.RuleSpec{
		PriceListID:  list.ID,
		Code:         in.Code,
		Kind:         pricing.RuleKind(in.Kind),
		Priority:     in.Priority,
		DiscountType: pricing.DiscountType(in.DiscountType),
		Direction:    pricing.Direction(in.Direction),
		Description:  in.Description,
	}
	if spec.Direction == "" {
		spec.Direction = pricing.DirectionDiscount
	}
	if in.Channel != "" {
		channel, err := pricing.ParseChannel(in.Channel)
		if err != nil {
			return err
		}
		spec.Channel = channel
	}

	var err error
	if spec.LineID, err = a.ref(a.lineIDs, "line", in.Line); err != nil {
		return err
	}
	if spec.GroupID, err = a.ref(a.groupIDs, "group", in.Group); err != nil {
		return err
	}
	if spec.ArticleID, err = a.ref(a.articleIDs, "article", in.Article); err != nil {
		return err
	}
	if spec.MinQuantity, err = parseOptionalDecimal("min_quantity", in.MinQuantity); err != nil {
		return err
	}
	if spec.MinAmount, err = parseOptionalDecimal("min_amount", in.MinAmount); err != nil {
		return err
	}
	if spec.Value, err = parseDecimal("value", in.Value); err != nil {
		return err
	}
	if spec.ValidFrom, err = parseDate("valid_from", in.ValidFrom); err != nil {
		return err
	}
	if spec.ValidTo, err = parseDate("valid_to", in.ValidTo); err != nil {
		return err
	}

	rule, err := pricing.NewPricingRule(a.tenantID, spec)
	if err != nil {
		return err
	}
	rule.ID = idFor(a.tenantID, "rule", list.Code+"/"+rule.Code)
	if in.Inactive {
		if err := rule.Deactivate(); err != nil {
			return err
		}
	}
	if err := a.rules.Save(ctx, rule); err != nil {
		return err
	}
	a.result.Rules++
	return nil
}

func (a *applier) applyAuthorization(ctx context.Context, i int, in Authorization) error {
	supplierID, err := uuid.Parse(in.SupplierID)
	if err != nil {
		return fmt.Errorf("authorization %d supplier_id: %w", i, err)
	}
	percent, err := parseDecimal("percent", in.Percent)
	if err != nil {
		return fmt.Errorf("authorization %d: %w", i, err)
	}
	from, err := parseDate("valid_from", in.ValidFrom)
	if err != nil {
		return fmt.Errorf("authorization %d: %w", i, err)
	}
	to, err := parseDate("valid_to", in.ValidTo)
	if err != nil {
		return fmt.Errorf("authorization %d: %w", i, err)
	}

	auth, err := pricing.NewSupplierAuthorization(a.tenantID, supplierID, percent, from, to)
	if err != nil {
		return fmt.Errorf("authorization %d: %w", i, err)
	}
	if auth.LineID, err = a.ref(a.lineIDs, "line", in.Line); err != nil {
		return fmt.Errorf("authorization %d: %w", i, err)
	}
	if auth.GroupID, err = a.ref(a.groupIDs, "group", in.Group); err != nil {
		return fmt.Errorf("authorization %d: %w", i, err)
	}
	if auth.ArticleID, err = a.ref(a.articleIDs, "article", in.Article); err != nil {
		return fmt.Errorf("authorization %d: %w", i, err)
	}
	auth.ID = idFor(a.tenantID, "authorization", fmt.Sprintf("%s/%d", in.SupplierID, i))

	if err := a.auths.Save(ctx, auth); err != nil {
		return err
	}
	a.result.Authorizations++
	return nil
}

func (a *applier) ref(ids map[string]uuid.UUID, kind, code string) (*uuid.UUID, error) {
	if code == "" {
		return nil, nil
	}
	id, ok := ids[code]
	if !ok {
		return nil, fmt.Errorf("unknown %s %q", kind, code)
	}
	return &id, nil
}
