package service

import (
	"testing"
	"time"

	"mongolog-report-bot/internal/domain/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
)

func walletWithMetrics(address string, index int64, project string, metrics bson.D) *entity.Wallet {
	return &entity.Wallet{
		Address:        address,
		AddressLowCase: address,
		Index:          index,
		Projects: []entity.ProjectMembership{
			{ProjectID: "p1", ProjectName: project, Metrics: metrics},
		},
	}
}

func TestMetricsAggregator_Aggregate(t *testing.T) {
	aggregator := NewMetricsAggregator()

	t.Run("column set is the union of metric fields", func(t *testing.T) {
		wallets := []*entity.Wallet{
			walletWithMetrics("0xaa", 1, "alpha", bson.D{
				{Key: "points", Value: "120"},
				{Key: "last_updated", Value: time.Now()},
			}),
			walletWithMetrics("0xbb", 2, "alpha", bson.D{
				{Key: "points", Value: "90"},
				{Key: "rank", Value: "7"},
			}),
		}

		table := aggregator.Aggregate("alpha", wallets)
		require.Len(t, table, 3)

		assert.Equal(t, []interface{}{"Index", "Wallet", "Points", "Rank"}, table[0])
		assert.Equal(t, []interface{}{int64(1), "0xaa", "120", ""}, table[1])
		assert.Equal(t, []interface{}{int64(2), "0xbb", "90", "7"}, table[2])
	})

	t.Run("columns keep first-seen order", func(t *testing.T) {
		wallets := []*entity.Wallet{
			walletWithMetrics("0xaa", 1, "alpha", bson.D{
				{Key: "zeta", Value: "1"},
				{Key: "alpha", Value: "2"},
			}),
			walletWithMetrics("0xbb", 2, "alpha", bson.D{
				{Key: "beta", Value: "3"},
			}),
		}

		table := aggregator.Aggregate("alpha", wallets)
		assert.Equal(t, []interface{}{"Index", "Wallet", "Zeta", "Alpha", "Beta"}, table[0])
	})

	t.Run("field lookup is case-normalized", func(t *testing.T) {
		wallets := []*entity.Wallet{
			walletWithMetrics("0xaa", 1, "alpha", bson.D{{Key: "Points", Value: "5"}}),
			walletWithMetrics("0xbb", 2, "alpha", bson.D{{Key: "points", Value: "6"}}),
		}

		table := aggregator.Aggregate("alpha", wallets)
		require.Len(t, table, 3)
		assert.Equal(t, []interface{}{"Index", "Wallet", "Points"}, table[0])
		assert.Equal(t, "5", table[1][2])
		assert.Equal(t, "6", table[2][2])
	})

	t.Run("wallets outside the project or with empty bags are skipped", func(t *testing.T) {
		wallets := []*entity.Wallet{
			walletWithMetrics("0xaa", 1, "other", bson.D{{Key: "points", Value: "1"}}),
			walletWithMetrics("0xbb", 2, "alpha", nil),
			walletWithMetrics("0xcc", 3, "alpha", bson.D{{Key: "points", Value: "2"}}),
		}

		table := aggregator.Aggregate("alpha", wallets)
		require.Len(t, table, 2)
		assert.Equal(t, []interface{}{int64(3), "0xcc", "2"}, table[1])
	})

	t.Run("no qualifying wallets yields a bare header", func(t *testing.T) {
		table := aggregator.Aggregate("alpha", nil)
		require.Len(t, table, 1)
		assert.Equal(t, []interface{}{"Index", "Wallet"}, table[0])
	})
}
