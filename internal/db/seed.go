package db

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"

	"groupbuy/internal/core/port"
)

// Seed creates demo campaigns through the use cases, so the data obeys the
// same rules as real traffic. Every campaign gets a three-tier bracket
// table, is published and receives a mix of pending and committed pledges.
func Seed(ctx context.Context, campaigns port.CampaignUseCase, pledges port.PledgeUseCase) error {
	r := rand.New(rand.NewSource(time.Now().UnixNano()))
	supplier := uuid.New()

	for i := 1; i <= 3; i++ {
		meta, _ := json.Marshal(map[string]any{
			"sku":  fmt.Sprintf("SKU-%03d", i),
			"unit": "case",
		})
		tier1Max := int64(49)
		tier2Max := int64(199)
		c, err := campaigns.CreateCampaign(ctx, port.CreateCampaignReq{
			SupplierID:      supplier,
			Title:           fmt.Sprintf("Bulk order %d", i),
			Description:     "Demo group-buying campaign",
			ProductMetadata: meta,
			TargetQuantity:  200,
			StartDate:       time.Now().AddDate(0, 0, -1),
			EndDate:         time.Now().AddDate(0, 0, 7*i),
			Brackets: []port.BracketReq{
				{MinQuantity: 10, MaxQuantity: &tier1Max, UnitPrice: decimal.RequireFromString("100.00")},
				{MinQuantity: 50, MaxQuantity: &tier2Max, UnitPrice: decimal.RequireFromString("92.50")},
				{MinQuantity: 200, UnitPrice: decimal.RequireFromString("85.00")},
			},
		})
		if err != nil {
			return errors.Wrapf(err, "seed campaign %d", i)
		}
		if _, err = campaigns.Publish(ctx, c.ID); err != nil {
			return errors.Wrapf(err, "publish campaign %d", i)
		}

		for j := 0; j < 5+r.Intn(5); j++ {
			p, err := pledges.CreatePledge(ctx, c.ID, uuid.New(), int64(1+r.Intn(20)))
			if err != nil {
				return errors.Wrap(err, "seed pledge")
			}
			if r.Intn(3) == 0 {
				continue
			}
			if _, err = pledges.CommitPledge(ctx, p.ID); err != nil {
				return errors.Wrap(err, "commit pledge")
			}
		}
	}
	return nil
}
