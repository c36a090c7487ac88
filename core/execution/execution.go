// Package execution describes the context an event or request is processed in:
// which microservice and tenant it belongs to and how it is correlated.
package execution

import (
	"log/slog"

	gonanoid "github.com/matoous/go-nanoid/v2"

	"github.com/dolittle/go-sdk/core/artifacts"
)

type (
	TenantID       [16]byte
	MicroserviceID [16]byte
)

// DevelopmentTenant is the tenant used when running against a local runtime.
var DevelopmentTenant = artifacts.MustParseID[TenantID]("445f8ea8-1a6f-40d7-b2fc-796dba92dc44")

// NotSetMicroservice is used when no microservice id has been configured.
var NotSetMicroservice = MicroserviceID{}

func (id TenantID) String() string                   { return artifacts.IDString(id) }
func (id TenantID) MarshalText() ([]byte, error)     { return []byte(id.String()), nil }
func (id *TenantID) UnmarshalText(text []byte) error { return unmarshalID(id, text) }

func (id MicroserviceID) String() string                   { return artifacts.IDString(id) }
func (id MicroserviceID) MarshalText() ([]byte, error)     { return []byte(id.String()), nil }
func (id *MicroserviceID) UnmarshalText(text []byte) error { return unmarshalID(id, text) }

func unmarshalID[TID artifacts.Identifier](dst *TID, text []byte) error {
	id, err := artifacts.ParseID[TID](string(text))
	if err != nil {
		return err
	}
	*dst = id
	return nil
}

// Version is the semantic version of the running microservice.
type Version struct {
	Major      int    `json:"major"`
	Minor      int    `json:"minor"`
	Patch      int    `json:"patch"`
	Build      int    `json:"build"`
	PreRelease string `json:"preRelease,omitempty"`
}

// Claim is a single security claim carried with the context.
type Claim struct {
	Key       string `json:"key"`
	Value     string `json:"value"`
	ValueType string `json:"valueType"`
}

// Context is the execution context of an event or a request.
type Context struct {
	Microservice  MicroserviceID `json:"microserviceId"`
	Tenant        TenantID       `json:"tenantId"`
	Version       Version        `json:"version"`
	Environment   string         `json:"environment"`
	CorrelationID string         `json:"correlationId"`
	Claims        []Claim        `json:"claims,omitempty"`
}

// NewCorrelationID returns a fresh correlation id.
func NewCorrelationID() string { return gonanoid.Must() }

// ForTenant returns a copy of c for the given tenant.
func (c Context) ForTenant(tenant TenantID) Context {
	c.Tenant = tenant
	return c
}

// ForCorrelation returns a copy of c with the given correlation id.
func (c Context) ForCorrelation(correlationID string) Context {
	c.CorrelationID = correlationID
	return c
}

// LogValue groups the identifying fields for slog.
func (c Context) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("tenant", c.Tenant.String()),
		slog.String("correlation", c.CorrelationID),
		slog.String("environment", c.Environment),
	)
}
