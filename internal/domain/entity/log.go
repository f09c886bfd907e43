package entity

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// LogEntry is an immutable activity record written by the tracked automation
// processes. The reporting core only filters and reads them.
type LogEntry struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	Index       int64              `bson:"index,omitempty" json:"index"`
	Wallet      string             `bson:"wallet,omitempty" json:"wallet"`
	ProjectName string             `bson:"project_name,omitempty" json:"project_name"`
	Level       string             `bson:"level" json:"level"`
	Action      string             `bson:"action" json:"action"`
	Message     string             `bson:"message" json:"message"`
	StackTrace  string             `bson:"stack_trace,omitempty" json:"stack_trace"`
	Date        time.Time          `bson:"date" json:"date"`
}

// LogFilter is a conjunctive query over the logs collection. Empty/nil fields
// are left out of the query, so a zero filter matches everything.
type LogFilter struct {
	ProjectName string
	StartDate   *time.Time
	EndDate     *time.Time
}
