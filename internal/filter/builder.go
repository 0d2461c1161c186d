package filter

import (
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/dafoggo/klinh-admin/internal/models"
)

// Builder generates SQL WHERE clauses from filter entries
type Builder struct {
	// Location decides calendar day boundaries for date filters
	Location *time.Location
	// Logic joins the conditions, "AND" when empty
	Logic string
}

// NewBuilder creates a new filter builder
func NewBuilder() *Builder {
	return &Builder{Location: time.Local, Logic: "AND"}
}

// BuildWhere generates a WHERE clause from the entries. Entries that carry
// no usable value are skipped, so an all-empty list yields no clause.
func (b *Builder) BuildWhere(entries []models.FilterEntry) (string, []interface{}, error) {
	clause, args, err := b.buildConditions(entries, 1)
	if err != nil {
		return "", nil, err
	}
	if clause == "" {
		return "", nil, nil
	}
	return "WHERE " + clause, args, nil
}

// buildConditions joins every entry's condition with the builder logic
func (b *Builder) buildConditions(entries []models.FilterEntry, paramIndex int) (string, []interface{}, error) {
	var clauses []string
	var args []interface{}
	currentParam := paramIndex

	for _, entry := range entries {
		clause, condArgs, err := b.buildCondition(entry, currentParam)
		if err != nil {
			return "", nil, err
		}
		if clause == "" {
			continue
		}
		clauses = append(clauses, clause)
		args = append(args, condArgs...)
		currentParam += len(condArgs)
	}

	logic := strings.ToUpper(b.Logic)
	if logic != "OR" {
		logic = "AND"
	}
	return strings.Join(clauses, " "+logic+" "), args, nil
}

// buildCondition builds a single condition. An empty clause means the entry
// does not restrict anything.
func (b *Builder) buildCondition(entry models.FilterEntry, paramIndex int) (string, []interface{}, error) {
	if !IsValidOperator(entry.Variant, entry.Operator) {
		return "", nil, fmt.Errorf("unsupported operator %q for %s column %q", entry.Operator, entry.Variant, entry.ID)
	}

	column := pgx.Identifier{entry.ID}.Sanitize()

	stringLike := entry.Variant == models.VariantText ||
		entry.Variant == models.VariantSelect ||
		entry.Variant == models.VariantMultiSelect

	switch entry.Operator {
	case models.OpIsEmpty:
		if stringLike {
			return fmt.Sprintf("(%s IS NULL OR %s = '')", column, column), nil, nil
		}
		return fmt.Sprintf("%s IS NULL", column), nil, nil
	case models.OpIsNotEmpty:
		if stringLike {
			return fmt.Sprintf("(%s IS NOT NULL AND %s <> '')", column, column), nil, nil
		}
		return fmt.Sprintf("%s IS NOT NULL", column), nil, nil
	}

	switch entry.Variant {
	case models.VariantText:
		return b.textCondition(column, entry, paramIndex)
	case models.VariantNumber, models.VariantRange:
		return b.numberCondition(column, entry, paramIndex)
	case models.VariantDate, models.VariantDateRange:
		return b.dateCondition(column, entry, paramIndex)
	case models.VariantBoolean:
		v, ok := ParseBool(entry.Value.String())
		if !ok {
			return "", nil, nil
		}
		op := "="
		if entry.Operator == models.OpIsNot {
			op = "IS DISTINCT FROM"
		}
		return fmt.Sprintf("%s %s $%d", column, op, paramIndex), []interface{}{v}, nil
	case models.VariantSelect:
		value := entry.Value.String()
		if strings.TrimSpace(value) == "" {
			return "", nil, nil
		}
		op := "="
		if entry.Operator == models.OpIsNot {
			op = "IS DISTINCT FROM"
		}
		return fmt.Sprintf("%s %s $%d", column, op, paramIndex), []interface{}{value}, nil
	case models.VariantMultiSelect:
		values := entry.Value.Strings()
		if len(values) == 0 {
			return "", nil, nil
		}
		if entry.Operator == models.OpIsNoneOf {
			return fmt.Sprintf("(%s IS NULL OR NOT (%s = ANY($%d)))", column, column, paramIndex), []interface{}{values}, nil
		}
		return fmt.Sprintf("%s = ANY($%d)", column, paramIndex), []interface{}{values}, nil
	default:
		return "", nil, fmt.Errorf("unsupported variant: %s", entry.Variant)
	}
}

func (b *Builder) textCondition(column string, entry models.FilterEntry, paramIndex int) (string, []interface{}, error) {
	value := entry.Value.String()
	if strings.TrimSpace(value) == "" {
		return "", nil, nil
	}

	switch entry.Operator {
	case models.OpContains:
		return fmt.Sprintf("%s ILIKE $%d", column, paramIndex), []interface{}{"%" + escapeLike(value) + "%"}, nil
	case models.OpDoesNotContain:
		return fmt.Sprintf("(%s IS NULL OR %s NOT ILIKE $%d)", column, column, paramIndex), []interface{}{"%" + escapeLike(value) + "%"}, nil
	case models.OpEquals:
		return fmt.Sprintf("lower(%s) = lower($%d)", column, paramIndex), []interface{}{value}, nil
	case models.OpNotEquals:
		return fmt.Sprintf("(%s IS NULL OR lower(%s) <> lower($%d))", column, column, paramIndex), []interface{}{value}, nil
	}
	return "", nil, fmt.Errorf("unsupported operator: %s", entry.Operator)
}

var comparisonSQL = map[models.FilterOperator]string{
	models.OpEquals:         "=",
	models.OpNotEquals:      "IS DISTINCT FROM",
	models.OpLessThan:       "<",
	models.OpLessOrEqual:    "<=",
	models.OpGreaterThan:    ">",
	models.OpGreaterOrEqual: ">=",
}

func (b *Builder) numberCondition(column string, entry models.FilterEntry, paramIndex int) (string, []interface{}, error) {
	parse := func(s string) (interface{}, bool) {
		return ParseNumber(s)
	}

	if entry.Operator == models.OpIsBetween {
		lo, hi := RangeBounds(entry.Value)
		return betweenCondition(column, lo, hi, paramIndex, parse)
	}

	op, ok := comparisonSQL[entry.Operator]
	if !ok {
		return "", nil, fmt.Errorf("unsupported operator: %s", entry.Operator)
	}
	n, ok := ParseNumber(entry.Value.String())
	if !ok {
		return "", nil, nil
	}
	return fmt.Sprintf("%s %s $%d", column, op, paramIndex), []interface{}{n}, nil
}

func (b *Builder) dateCondition(column string, entry models.FilterEntry, paramIndex int) (string, []interface{}, error) {
	loc := b.Location
	if loc == nil {
		loc = time.Local
	}

	if entry.Operator == models.OpIsBetween {
		lo, hi := RangeBounds(entry.Value)
		from, hasFrom := ParseEpochMillis(lo)
		to, hasTo := ParseEpochMillis(hi)
		switch {
		case hasFrom && hasTo:
			start, _ := DayBounds(from, loc)
			_, end := DayBounds(to, loc)
			return fmt.Sprintf("(%s >= $%d AND %s < $%d)", column, paramIndex, column, paramIndex+1),
				[]interface{}{start, end}, nil
		case hasFrom:
			start, _ := DayBounds(from, loc)
			return fmt.Sprintf("%s >= $%d", column, paramIndex), []interface{}{start}, nil
		case hasTo:
			_, end := DayBounds(to, loc)
			return fmt.Sprintf("%s < $%d", column, paramIndex), []interface{}{end}, nil
		}
		return "", nil, nil
	}

	day, ok := ParseEpochMillis(entry.Value.String())
	if !ok {
		return "", nil, nil
	}
	start, end := DayBounds(day, loc)

	switch entry.Operator {
	case models.OpIs:
		return fmt.Sprintf("(%s >= $%d AND %s < $%d)", column, paramIndex, column, paramIndex+1),
			[]interface{}{start, end}, nil
	case models.OpIsNot:
		return fmt.Sprintf("(%s IS NULL OR %s < $%d OR %s >= $%d)", column, column, paramIndex, column, paramIndex+1),
			[]interface{}{start, end}, nil
	case models.OpIsBefore:
		return fmt.Sprintf("%s < $%d", column, paramIndex), []interface{}{start}, nil
	case models.OpIsAfter:
		return fmt.Sprintf("%s >= $%d", column, paramIndex), []interface{}{end}, nil
	case models.OpIsOnOrBefore:
		return fmt.Sprintf("%s < $%d", column, paramIndex), []interface{}{end}, nil
	case models.OpIsOnOrAfter:
		return fmt.Sprintf("%s >= $%d", column, paramIndex), []interface{}{start}, nil
	}
	return "", nil, fmt.Errorf("unsupported operator: %s", entry.Operator)
}

// betweenCondition builds an inclusive range; a missing bound leaves that side open
func betweenCondition(column, lo, hi string, paramIndex int, parse func(string) (interface{}, bool)) (string, []interface{}, error) {
	loVal, hasLo := parse(lo)
	hiVal, hasHi := parse(hi)

	switch {
	case hasLo && hasHi:
		return fmt.Sprintf("%s BETWEEN $%d AND $%d", column, paramIndex, paramIndex+1), []interface{}{loVal, hiVal}, nil
	case hasLo:
		return fmt.Sprintf("%s >= $%d", column, paramIndex), []interface{}{loVal}, nil
	case hasHi:
		return fmt.Sprintf("%s <= $%d", column, paramIndex), []interface{}{hiVal}, nil
	}
	return "", nil, nil
}

// escapeLike escapes the LIKE wildcards of a user supplied pattern
func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}
