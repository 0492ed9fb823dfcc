package database

import (
	"strings"
	"testing"
)

func TestBuildListQuery_BasicSelect(t *testing.T) {
	opts := NewListQueryOptions("venues")
	query, args := BuildListQuery(opts)

	expected := `SELECT * FROM "venues"`
	if query != expected {
		t.Errorf("Expected query %q, got %q", expected, query)
	}
	if len(args) != 0 {
		t.Errorf("Expected 0 args, got %d", len(args))
	}
}

func TestBuildListQuery_WithColumns(t *testing.T) {
	opts := NewListQueryOptions("venues",
		WithColumns("id", "name", "address"),
	)
	query, args := BuildListQuery(opts)

	expected := `SELECT "id", "name", "address" FROM "venues"`
	if query != expected {
		t.Errorf("Expected query %q, got %q", expected, query)
	}
	if len(args) != 0 {
		t.Errorf("Expected 0 args, got %d", len(args))
	}
}

func TestBuildListQuery_WithQualifiedColumns(t *testing.T) {
	opts := NewListQueryOptions("songs",
		WithColumns("songs.id", "songs.title", "artists.name"),
	)
	query, args := BuildListQuery(opts)

	expected := `SELECT "songs"."id", "songs"."title", "artists"."name" FROM "songs"`
	if query != expected {
		t.Errorf("Expected query %q, got %q", expected, query)
	}
	if len(args) != 0 {
		t.Errorf("Expected 0 args, got %d", len(args))
	}
}

func TestBuildListQuery_WhereEqual(t *testing.T) {
	opts := NewListQueryOptions("venues",
		WithCondition(WhereCond("validated", Equal, true)),
	)
	query, args := BuildListQuery(opts)

	expected := `SELECT * FROM "venues" WHERE "validated" = $1`
	if query != expected {
		t.Errorf("Expected query %q, got %q", expected, query)
	}
	if len(args) != 1 || args[0] != true {
		t.Errorf("Expected args [true], got %v", args)
	}
}

func TestBuildListQuery_WhereILike(t *testing.T) {
	opts := NewListQueryOptions("artists",
		WithCondition(WhereCond("name", ILike, "%cavern%")),
	)
	query, args := BuildListQuery(opts)

	expected := `SELECT * FROM "artists" WHERE "name" ILIKE $1`
	if query != expected {
		t.Errorf("Expected query %q, got %q", expected, query)
	}
	if len(args) != 1 || args[0] != "%cavern%" {
		t.Errorf("Expected args [%%cavern%%], got %v", args)
	}
}

func TestBuildListQuery_WhereRaw_SingleParam(t *testing.T) {
	opts := NewListQueryOptions("artists",
		WithCondition(WhereRawCond("$1 = ANY(genres)", "indie")),
	)
	query, args := BuildListQuery(opts)

	expected := `SELECT * FROM "artists" WHERE $1 = ANY(genres)`
	if query != expected {
		t.Errorf("Expected query %q, got %q", expected, query)
	}
	if len(args) != 1 || args[0] != "indie" {
		t.Errorf("Expected args [indie], got %v", args)
	}
}

func TestBuildListQuery_WhereRaw_MultipleParams(t *testing.T) {
	opts := NewListQueryOptions("songs",
		WithCondition(WhereRawCond("duration_seconds BETWEEN $1 AND $2", 60, 600)),
	)
	query, args := BuildListQuery(opts)

	expected := `SELECT * FROM "songs" WHERE duration_seconds BETWEEN $1 AND $2`
	if query != expected {
		t.Errorf("Expected query %q, got %q", expected, query)
	}
	if len(args) != 2 || args[0] != 60 || args[1] != 600 {
		t.Errorf("Expected args [60, 600], got %v", args)
	}
}

func TestBuildListQuery_WhereRaw_RepeatedPlaceholder(t *testing.T) {
	opts := NewListQueryOptions("venues",
		WithCondition(WhereRawCond("(latitude > $1 OR longitude > $1)", 0.0)),
	)
	query, args := BuildListQuery(opts)

	expected := `SELECT * FROM "venues" WHERE (latitude > $1 OR longitude > $1)`
	if query != expected {
		t.Errorf("Expected query %q, got %q", expected, query)
	}
	if len(args) != 1 || args[0] != 0.0 {
		t.Errorf("Expected args [0], got %v", args)
	}
}

func TestBuildListQuery_WhereRaw_RenumbersAfterFieldConditions(t *testing.T) {
	opts := NewListQueryOptions("artists",
		WithCondition(WhereCond("name", ILike, "%the%")),
		WithCondition(WhereRawCond("$1 = ANY(genres)", "rock")),
	)
	query, args := BuildListQuery(opts)

	expected := `SELECT * FROM "artists" WHERE "name" ILIKE $1 AND $2 = ANY(genres)`
	if query != expected {
		t.Errorf("Expected query %q, got %q", expected, query)
	}
	if len(args) != 2 || args[0] != "%the%" || args[1] != "rock" {
		t.Errorf("Expected args [%%the%%, rock], got %v", args)
	}
}

func TestBuildListQuery_OrderBy(t *testing.T) {
	opts := NewListQueryOptions("venues",
		WithOrderBy("created_at", "DESC"),
	)
	query, args := BuildListQuery(opts)

	expected := `SELECT * FROM "venues" ORDER BY "created_at" DESC`
	if query != expected {
		t.Errorf("Expected query %q, got %q", expected, query)
	}
	if len(args) != 0 {
		t.Errorf("Expected 0 args, got %d", len(args))
	}
}

func TestBuildListQuery_OrderBy_InvalidDirectionDropped(t *testing.T) {
	opts := NewListQueryOptions("venues",
		WithOrderBy("name", "SIDEWAYS"),
	)
	query, _ := BuildListQuery(opts)

	expected := `SELECT * FROM "venues" ORDER BY "name"`
	if query != expected {
		t.Errorf("Expected query %q, got %q", expected, query)
	}
}

func TestBuildListQuery_LimitOffset(t *testing.T) {
	opts := NewListQueryOptions("songs",
		WithLimit(10),
		WithOffset(20),
	)
	query, args := BuildListQuery(opts)

	expected := `SELECT * FROM "songs" LIMIT $1 OFFSET $2`
	if query != expected {
		t.Errorf("Expected query %q, got %q", expected, query)
	}
	if len(args) != 2 || args[0] != 10 || args[1] != 20 {
		t.Errorf("Expected args [10, 20], got %v", args)
	}
}

func TestBuildListQuery_ComplexQuery(t *testing.T) {
	opts := NewListQueryOptions("venues",
		WithColumns("id", "name", "validated"),
		WithCondition(WhereCond("name", ILike, "%arena%")),
		WithCondition(WhereCond("validated", Equal, true)),
		WithOrderBy("name", "ASC"),
		WithLimit(50),
		WithOffset(0),
	)
	query, args := BuildListQuery(opts)

	expected := `SELECT "id", "name", "validated" FROM "venues" WHERE "name" ILIKE $1 AND "validated" = $2 ORDER BY "name" ASC LIMIT $3 OFFSET $4`
	if query != expected {
		t.Errorf("Expected query %q, got %q", expected, query)
	}
	if len(args) != 4 {
		t.Errorf("Expected 4 args, got %d: %v", len(args), args)
	}
}

func TestBuildListQuery_SQLInjectionPrevention(t *testing.T) {
	// A hostile table name must end up as a single quoted identifier.
	opts := NewListQueryOptions("venues; DROP TABLE venues;--")
	query, _ := BuildListQuery(opts)

	expected := `SELECT * FROM "venues; DROP TABLE venues;--"`
	if query != expected {
		t.Errorf("Expected %q, got %q", expected, query)
	}
	if !strings.Contains(query, `"venues; DROP TABLE venues;--"`) {
		t.Errorf("Table name not properly quoted: %q", query)
	}
}

func TestBuildListQuery_SQLInjectionViaField(t *testing.T) {
	opts := NewListQueryOptions("venues",
		WithCondition(WhereCond(`name" = '' OR 1=1;--`, Equal, "x")),
	)
	query, _ := BuildListQuery(opts)

	if !strings.Contains(query, `"name"" = '' OR 1=1;--"`) {
		t.Errorf("Field name not properly quoted: %q", query)
	}
}
