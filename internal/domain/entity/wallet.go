package entity

import (
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MetricsLastUpdatedField is bookkeeping inside a metrics bag, not a metric.
const MetricsLastUpdatedField = "last_updated"

// ProjectMembership ties a wallet to a project together with the metrics
// recorded for it there. Metrics is an ordered document with a variable set of
// named fields; the schema differs per wallet and changes over time.
type ProjectMembership struct {
	ProjectID   string    `bson:"project_id" json:"project_id"`
	ProjectName string    `bson:"project_name" json:"project_name"`
	AddedAt     time.Time `bson:"added_at" json:"added_at"`
	Metrics     bson.D    `bson:"metrics" json:"metrics"`
}

// Wallet represents a tracked wallet document. Balances is not interpreted by
// the reporting core and must round-trip untouched.
type Wallet struct {
	ID             primitive.ObjectID  `bson:"_id,omitempty" json:"id,omitempty"`
	Address        string              `bson:"address" json:"address"`
	AddressLowCase string              `bson:"addressLowCase" json:"address_low_case"`
	Index          int64               `bson:"index" json:"index"`
	Projects       []ProjectMembership `bson:"projects" json:"projects"`
	Balances       bson.M              `bson:"balances,omitempty" json:"balances,omitempty"`
}

// MembershipIn returns the wallet's membership in the named project, if any.
func (w *Wallet) MembershipIn(projectName string) (*ProjectMembership, bool) {
	for i := range w.Projects {
		if w.Projects[i].ProjectName == projectName {
			return &w.Projects[i], true
		}
	}
	return nil, false
}
