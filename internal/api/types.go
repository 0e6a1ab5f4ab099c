package api

import (
	"time"

	"watchtag/internal/history"
	"watchtag/internal/providers"
)

// ProviderView is the API representation of one provider rule.
type ProviderView struct {
	Name             string `json:"name"`
	Tag              string `json:"tag"`
	ProviderIDs      []int  `json:"providerIds"`
	CreateCollection bool   `json:"createCollection"`
	CollectionID     string `json:"collectionId,omitempty"`
	LogoURL          string `json:"logoUrl,omitempty"`
}

// ProviderListResponse lists the configured provider rules.
type ProviderListResponse struct {
	Providers []ProviderView `json:"providers"`
}

// ItemView is the API representation of one tagged catalog item.
type ItemView struct {
	ID   string   `json:"id"`
	Name string   `json:"name"`
	Kind string   `json:"kind"`
	Tags []string `json:"tags,omitempty"`
}

// ItemListResponse is one page of tagged catalog items.
type ItemListResponse struct {
	Items []ItemView `json:"items"`
	Total int        `json:"total"`
}

// SweepRunView is the API representation of one recorded sweep run.
type SweepRunView struct {
	RunID          string    `json:"runId"`
	Status         string    `json:"status"`
	StartedAt      time.Time `json:"startedAt"`
	FinishedAt     time.Time `json:"finishedAt"`
	ItemsTotal     int       `json:"itemsTotal"`
	ItemsProcessed int       `json:"itemsProcessed"`
	ItemsTagged    int       `json:"itemsTagged"`
	ItemsSkipped   int       `json:"itemsSkipped"`
	ItemsFailed    int       `json:"itemsFailed"`
	TagsAdded      int       `json:"tagsAdded"`
	MembersQueued  int       `json:"membersQueued"`
}

// HistoryResponse lists recorded sweep runs, most recent first.
type HistoryResponse struct {
	Runs []SweepRunView `json:"runs"`
}

// DaemonStatus reports daemon runtime information.
type DaemonStatus struct {
	Running       bool          `json:"running"`
	PID           int           `json:"pid"`
	SweepActive   bool          `json:"sweepActive"`
	RuleCount     int           `json:"ruleCount"`
	Region        string        `json:"region"`
	HistoryDBPath string        `json:"historyDbPath,omitempty"`
	LockFilePath  string        `json:"lockFilePath,omitempty"`
	LastRun       *SweepRunView `json:"lastRun,omitempty"`
}

// TriggerResponse acknowledges a manual sweep trigger.
type TriggerResponse struct {
	Started bool   `json:"started"`
	Message string `json:"message,omitempty"`
}

// FromRule converts a provider rule to its API view.
func FromRule(rule providers.Rule) ProviderView {
	return ProviderView{
		Name:             rule.Name,
		Tag:              providers.Tag(rule.Name),
		ProviderIDs:      append([]int(nil), rule.ProviderIDs...),
		CreateCollection: rule.CreateCollection,
		LogoURL:          rule.LogoURL,
	}
}

// FromRun converts a recorded sweep run to its API view.
func FromRun(run history.Run) SweepRunView {
	return SweepRunView{
		RunID:          run.RunID,
		Status:         run.Status,
		StartedAt:      run.StartedAt,
		FinishedAt:     run.FinishedAt,
		ItemsTotal:     run.ItemsTotal,
		ItemsProcessed: run.ItemsProcessed,
		ItemsTagged:    run.ItemsTagged,
		ItemsSkipped:   run.ItemsSkipped,
		ItemsFailed:    run.ItemsFailed,
		TagsAdded:      run.TagsAdded,
		MembersQueued:  run.MembersQueued,
	}
}
