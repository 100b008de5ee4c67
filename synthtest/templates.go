package synthtest

import (
	"fmt"
	"hash/fnv"
	"math/rand"
	"strings"
	"time"

	"github.com/spektr-org/datasynth/schema"
)

// ============================================================================
// TEMPLATES — Heuristic schemas and row synthesis for the fake service
// ============================================================================
// Suggestions come from keyword templates (orders, students, transactions,
// weather, generic). Rows are derived from field names with a generator
// seeded by the request, so identical requests yield identical rows.
// ============================================================================

type template struct {
	keywords []string
	fields   []schema.Field
}

func tf(pairs ...string) []schema.Field {
	out := make([]schema.Field, 0, len(pairs)/2)
	for i := 0; i+1 < len(pairs); i += 2 {
		out = append(out, schema.Field{Name: pairs[i], Description: pairs[i+1], UseAI: true})
	}
	return out
}

var templates = []template{
	{
		keywords: []string{"ecommerce", "e-commerce", "order", "retail", "shop", "cart"},
		fields: tf(
			"order_id", "Unique order identifier",
			"order_date", "Date of the order",
			"customer_id", "Reference to the customer",
			"product_id", "Reference to the product",
			"quantity", "Units ordered",
			"unit_price", "Price per unit",
			"order_total", "Computed total for the order",
		),
	},
	{
		keywords: []string{"student", "education", "exam", "grades", "school", "university"},
		fields: tf(
			"student_id", "Unique student identifier",
			"name", "Student full name",
			"class", "Class/grade level",
			"subject", "Subject name",
			"score", "Marks/score obtained",
			"exam_date", "Date of examination",
		),
	},
	{
		keywords: []string{"transactions", "bank", "finance", "ledger", "payment"},
		fields: tf(
			"txn_id", "Unique transaction identifier",
			"account_id", "Linked account identifier",
			"txn_date", "Date of transaction",
			"amount", "Signed transaction amount",
			"merchant", "Merchant/payee",
			"category", "Spending category",
			"status", "Cleared/pending status",
		),
	},
	{
		keywords: []string{"weather", "climate", "temperature"},
		fields: tf(
			"date", "Calendar date",
			"location", "Station/city",
			"temperature_c", "Air temperature (°C)",
			"humidity_pct", "Relative humidity (%)",
			"precip_mm", "Precipitation (mm)",
			"wind_kph", "Wind speed (kph)",
			"condition", "Textual weather condition",
		),
	},
}

var genericFields = tf(
	"id", "Unique identifier",
	"name", "Entity name",
	"category", "High-level grouping",
	"description", "Short description",
	"created_at", "Creation timestamp",
	"value", "Primary numeric or textual value",
)

// suggestFields picks the template matching description, capped at max.
func suggestFields(description string, max int) ([]schema.Field, string) {
	d := strings.ToLower(description)
	fields, matched := genericFields, ""
	for _, t := range templates {
		for _, k := range t.keywords {
			if strings.Contains(d, k) {
				fields, matched = t.fields, k
				break
			}
		}
		if matched != "" {
			break
		}
	}
	if max > 0 && len(fields) > max {
		fields = fields[:max]
	}
	out := make([]schema.Field, len(fields))
	copy(out, fields)

	switch {
	case strings.TrimSpace(description) == "":
		return out, "No description provided; used generic template."
	case matched == "":
		return out, fmt.Sprintf("No template matched %q; used generic template.", description)
	default:
		return out, fmt.Sprintf("Matched keyword %q; used its template.", matched)
	}
}

// ============================================================================
// ROW SYNTHESIS
// ============================================================================

var regionCities = map[string][]string{
	"hi_IN": {"Mumbai", "Delhi", "Bengaluru", "Pune", "Chennai", "Kolkata"},
	"en_US": {"New York", "Chicago", "Austin", "Seattle", "Boston"},
	"en_GB": {"London", "Leeds", "Bristol", "Manchester"},
	"ja_JP": {"Tokyo", "Osaka", "Kyoto", "Sapporo"},
	"zh_CN": {"Shanghai", "Beijing", "Shenzhen", "Chengdu"},
	"fr_FR": {"Paris", "Lyon", "Marseille", "Lille"},
	"de_DE": {"Berlin", "Munich", "Hamburg", "Cologne"},
}

var categories = []string{"Alpha", "Beta", "Gamma", "Delta", "Epsilon"}

func seedFor(parts ...string) int64 {
	h := fnv.New64a()
	for _, p := range parts {
		h.Write([]byte(p))
		h.Write([]byte{0})
	}
	return int64(h.Sum64() & 0x7fffffffffffffff)
}

// synthValue produces one value for field name at row i. The returned value
// is a string, float64 or bool so it encodes as the matching JSON type.
func synthValue(rng *rand.Rand, name, region string, i int) any {
	n := strings.ToLower(name)
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	cities := regionCities[region]
	if cities == nil {
		cities = regionCities["hi_IN"]
	}

	switch {
	case n == "id" || strings.HasSuffix(n, "_id"):
		return fmt.Sprintf("%06d", 100000+rng.Intn(900000))
	case strings.Contains(n, "date") || strings.HasSuffix(n, "_at"):
		return base.AddDate(0, 0, rng.Intn(365)).Format("2006-01-02")
	case strings.Contains(n, "price") || strings.Contains(n, "amount") || strings.Contains(n, "total"):
		return float64(rng.Intn(100000)) / 100
	case strings.Contains(n, "quantity") || strings.Contains(n, "score") || strings.Contains(n, "count"):
		return float64(rng.Intn(100))
	case strings.Contains(n, "temperature"):
		return float64(rng.Intn(450)-50) / 10
	case strings.Contains(n, "pct") || strings.Contains(n, "mm") || strings.Contains(n, "kph") || n == "value":
		return float64(rng.Intn(1000)) / 10
	case strings.Contains(n, "city") || strings.Contains(n, "location"):
		return cities[rng.Intn(len(cities))]
	case strings.Contains(n, "category") || strings.Contains(n, "class") || strings.Contains(n, "status"):
		return categories[rng.Intn(len(categories))]
	case strings.HasPrefix(n, "is_") || strings.HasPrefix(n, "has_"):
		return rng.Intn(2) == 1
	default:
		return fmt.Sprintf("%s %d", strings.ReplaceAll(name, "_", " "), i+1)
	}
}
