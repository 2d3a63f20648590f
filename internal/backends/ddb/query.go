package ddb

import (
	"strings"

	ddbTypes "github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"idvault/internal/entities"
	"idvault/internal/ports"
)

const (
	// ExpirationIndexName is the range index over grant expirations. Grants
	// without an expiration omit the indexed attributes and never appear in
	// it.
	ExpirationIndexName = "expiration-index"

	gsiAttr        = "gsi"
	expirationAttr = "expiration"
)

// plan is a compiled query shape: either a key-condition query (scoped
// partition or the expiration index) or a full scan, plus an optional filter
// over non-key attributes.
type plan struct {
	keyCondition string
	filter       string
	index        *string
	names        map[string]string
	values       map[string]ddbTypes.AttributeValue
}

// compile lowers a query shape + scope onto the table's physical layout.
// Exactly one of three access paths comes out: a partition-scoped key query,
// an expiration-index range query, or an explicit cross-partition scan.
func compile(q ports.Query, scope ports.PartitionScope) plan {
	p := plan{
		names:  map[string]string{},
		values: map[string]ddbTypes.AttributeValue{},
	}

	var filters []string
	if q.SubjectID != "" {
		p.names["#sid"] = "subject_id"
		p.values[":sid"] = &ddbTypes.AttributeValueMemberS{Value: q.SubjectID}
		filters = append(filters, "#sid = :sid")
	}
	if q.ClientID != "" {
		p.names["#cid"] = "client_id"
		p.values[":cid"] = &ddbTypes.AttributeValueMemberS{Value: q.ClientID}
		filters = append(filters, "#cid = :cid")
	}
	if q.GrantType != "" {
		// "type" is reserved in expressions.
		p.names["#t"] = "type"
		p.values[":t"] = &ddbTypes.AttributeValueMemberS{Value: q.GrantType}
		filters = append(filters, "#t = :t")
	}

	if partition, ok := scope.Partition(); ok {
		p.names["#pk"] = "pk"
		p.values[":pk"] = &ddbTypes.AttributeValueMemberS{Value: partition}
		p.keyCondition = "#pk = :pk"
		if q.ID != "" {
			p.names["#id"] = "id"
			p.values[":id"] = &ddbTypes.AttributeValueMemberS{Value: q.ID}
			p.keyCondition += " AND #id = :id"
		}
		if q.ExpiringBefore != nil {
			p.names["#exp"] = expirationAttr
			p.values[":exp"] = &ddbTypes.AttributeValueMemberS{Value: q.ExpiringBefore.UTC().Format(entities.TimeLayout)}
			filters = append(filters, "#exp < :exp")
		}
	} else if q.ExpiringBefore != nil {
		// Cross-partition expiry range rides the index instead of scanning.
		idx := ExpirationIndexName
		p.index = &idx
		p.names["#gsi"] = gsiAttr
		p.names["#exp"] = expirationAttr
		p.values[":gsi"] = &ddbTypes.AttributeValueMemberS{Value: "grant"}
		p.values[":exp"] = &ddbTypes.AttributeValueMemberS{Value: q.ExpiringBefore.UTC().Format(entities.TimeLayout)}
		p.keyCondition = "#gsi = :gsi AND #exp < :exp"
		if q.ID != "" {
			p.names["#id"] = "id"
			p.values[":id"] = &ddbTypes.AttributeValueMemberS{Value: q.ID}
			filters = append(filters, "#id = :id")
		}
	} else {
		// Plain cross-partition scan; the scope made the cost explicit.
		if q.ID != "" {
			p.names["#id"] = "id"
			p.values[":id"] = &ddbTypes.AttributeValueMemberS{Value: q.ID}
			filters = append(filters, "#id = :id")
		}
	}

	p.filter = strings.Join(filters, " AND ")
	if len(p.names) == 0 {
		p.names = nil
	}
	if len(p.values) == 0 {
		p.values = nil
	}
	return p
}
