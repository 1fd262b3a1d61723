package store

import (
	"entgo.io/ent/dialect/sql/schema"
	"entgo.io/ent/schema/field"
)

const (
	conceptsTable   = "concepts"
	progressTable   = "progress"
	sessionsTable   = "sessions"
	settingsTable   = "settings"
	statisticsTable = "statistics"
	packsTable      = "vocab_packs"
	llmEventsTable  = "llm_request_events"
)

var (
	// ConceptsColumns holds the columns for the "concepts" table.
	// Variant-specific fields live in the JSON payload.
	ConceptsColumns = []*schema.Column{
		{Name: "id", Type: field.TypeString},
		{Name: "kind", Type: field.TypeString},
		{Name: "source", Type: field.TypeString},
		{Name: "score", Type: field.TypeFloat64},
		{Name: "payload", Type: field.TypeString, Size: 2147483647},
	}
	// ConceptsTable holds the schema information for the "concepts" table.
	ConceptsTable = &schema.Table{
		Name:       conceptsTable,
		Columns:    ConceptsColumns,
		PrimaryKey: []*schema.Column{ConceptsColumns[0]},
		Indexes: []*schema.Index{
			{Name: "concept_source", Columns: []*schema.Column{ConceptsColumns[2]}},
		},
	}

	// ProgressColumns holds the columns for the "progress" table.
	ProgressColumns = []*schema.Column{
		{Name: "concept_id", Type: field.TypeString},
		{Name: "last_reviewed", Type: field.TypeInt64},
		{Name: "review_count", Type: field.TypeInt},
		{Name: "ratings", Type: field.TypeString, Size: 2147483647},
		{Name: "average_rating", Type: field.TypeFloat64},
		{Name: "in_error_pool", Type: field.TypeBool, Default: false},
		{Name: "good_streak", Type: field.TypeInt, Default: 0},
	}
	// ProgressTable holds the schema information for the "progress" table.
	ProgressTable = &schema.Table{
		Name:       progressTable,
		Columns:    ProgressColumns,
		PrimaryKey: []*schema.Column{ProgressColumns[0]},
		Indexes: []*schema.Index{
			{Name: "progress_in_error_pool", Columns: []*schema.Column{ProgressColumns[5]}},
		},
	}

	// SessionsColumns holds the columns for the "sessions" table.
	SessionsColumns = []*schema.Column{
		{Name: "id", Type: field.TypeString},
		{Name: "started_at", Type: field.TypeInt64},
		{Name: "ended_at", Type: field.TypeInt64, Nullable: true},
		{Name: "mode", Type: field.TypeString},
		{Name: "planned", Type: field.TypeString, Size: 2147483647},
		{Name: "reviewed", Type: field.TypeString, Size: 2147483647},
		{Name: "target", Type: field.TypeInt},
		{Name: "completed", Type: field.TypeInt},
		{Name: "good", Type: field.TypeInt, Default: 0},
		{Name: "normal", Type: field.TypeInt, Default: 0},
		{Name: "bad", Type: field.TypeInt, Default: 0},
	}
	// SessionsTable holds the schema information for the "sessions" table.
	SessionsTable = &schema.Table{
		Name:       sessionsTable,
		Columns:    SessionsColumns,
		PrimaryKey: []*schema.Column{SessionsColumns[0]},
		Indexes: []*schema.Index{
			{Name: "session_started_at", Columns: []*schema.Column{SessionsColumns[1]}},
		},
	}

	// SettingsColumns holds the columns for the single-row "settings" table.
	SettingsColumns = []*schema.Column{
		{Name: "id", Type: field.TypeInt},
		{Name: "payload", Type: field.TypeString, Size: 2147483647},
	}
	// SettingsTable holds the schema information for the "settings" table.
	SettingsTable = &schema.Table{
		Name:       settingsTable,
		Columns:    SettingsColumns,
		PrimaryKey: []*schema.Column{SettingsColumns[0]},
	}

	// StatisticsColumns holds the columns for the single-row "statistics" table.
	StatisticsColumns = []*schema.Column{
		{Name: "id", Type: field.TypeInt},
		{Name: "payload", Type: field.TypeString, Size: 2147483647},
	}
	// StatisticsTable holds the schema information for the "statistics" table.
	StatisticsTable = &schema.Table{
		Name:       statisticsTable,
		Columns:    StatisticsColumns,
		PrimaryKey: []*schema.Column{StatisticsColumns[0]},
	}

	// PacksColumns holds the columns for the "vocab_packs" table.
	PacksColumns = []*schema.Column{
		{Name: "name", Type: field.TypeString},
		{Name: "version", Type: field.TypeString},
		{Name: "source", Type: field.TypeString},
		{Name: "concept_count", Type: field.TypeInt},
		{Name: "imported_at", Type: field.TypeInt64},
	}
	// PacksTable holds the schema information for the "vocab_packs" table.
	PacksTable = &schema.Table{
		Name:       packsTable,
		Columns:    PacksColumns,
		PrimaryKey: []*schema.Column{PacksColumns[0]},
	}

	// LLMRequestEventsColumns holds the columns for the "llm_request_events" table.
	LLMRequestEventsColumns = []*schema.Column{
		{Name: "id", Type: field.TypeInt, Increment: true},
		{Name: "timestamp", Type: field.TypeInt64},
		{Name: "provider", Type: field.TypeString},
		{Name: "model", Type: field.TypeString},
		{Name: "purpose", Type: field.TypeString},
		{Name: "input_tokens", Type: field.TypeInt},
		{Name: "output_tokens", Type: field.TypeInt},
		{Name: "latency_ms", Type: field.TypeInt64},
		{Name: "success", Type: field.TypeBool},
		{Name: "error_message", Type: field.TypeString, Default: ""},
		{Name: "request_body", Type: field.TypeString, Size: 2147483647, Default: ""},
		{Name: "response_body", Type: field.TypeString, Size: 2147483647, Default: ""},
	}
	// LLMRequestEventsTable holds the schema information for the "llm_request_events" table.
	LLMRequestEventsTable = &schema.Table{
		Name:       llmEventsTable,
		Columns:    LLMRequestEventsColumns,
		PrimaryKey: []*schema.Column{LLMRequestEventsColumns[0]},
		Indexes: []*schema.Index{
			{Name: "llmrequestevent_purpose", Columns: []*schema.Column{LLMRequestEventsColumns[4]}},
		},
	}

	// Tables holds all the tables in the schema.
	Tables = []*schema.Table{
		ConceptsTable,
		ProgressTable,
		SessionsTable,
		SettingsTable,
		StatisticsTable,
		PacksTable,
		LLMRequestEventsTable,
	}
)
