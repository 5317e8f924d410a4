package valueobjects

import (
	"fmt"

	"helpdesk/internal/shared/authorization"
)

type TicketStatus string

const (
	StatusNuevo               TicketStatus = "nuevo"
	StatusAsignado            TicketStatus = "asignado"
	StatusEnProceso           TicketStatus = "en_proceso"
	StatusEsperaCliente       TicketStatus = "espera_cliente"
	StatusResuelto            TicketStatus = "resuelto"
	StatusReabierto           TicketStatus = "reabierto"
	StatusCerrado             TicketStatus = "cerrado"
	StatusCancelado           TicketStatus = "cancelado"
	StatusPendienteAprobacion TicketStatus = "pendiente_aprobacion"
)

var validTicketStatuses = map[TicketStatus]bool{
	StatusNuevo:               true,
	StatusAsignado:            true,
	StatusEnProceso:           true,
	StatusEsperaCliente:       true,
	StatusResuelto:            true,
	StatusReabierto:           true,
	StatusCerrado:             true,
	StatusCancelado:           true,
	StatusPendienteAprobacion: true,
}

// RequiredInput names the payload field a transition demands. The state
// machine rejects the request with a missing-field error before touching
// the ticket when the input is absent or blank.
type RequiredInput string

const (
	InputNone            RequiredInput = ""
	InputAssignee        RequiredInput = "assigned_to"
	InputResolutionNotes RequiredInput = "resolution_notes"
	InputReopenReason    RequiredInput = "reopen_reason"
)

// TransitionRule is one edge of the ticket status graph: who may trigger
// it and what input it requires. The table below is the single source of
// truth consumed by both the state machine and the HTTP layer's
// UI-enablement endpoint, so the two cannot drift apart.
type TransitionRule struct {
	To       TicketStatus
	Roles    []authorization.UserRole
	Requires RequiredInput
}

// AllowsRole reports whether the given role may trigger this transition.
func (r TransitionRule) AllowsRole(role authorization.UserRole) bool {
	for _, allowed := range r.Roles {
		if allowed == role {
			return true
		}
	}
	return false
}

var staffRoles = []authorization.UserRole{
	authorization.RoleSuperadmin,
	authorization.RoleAdmin,
	authorization.RoleTechnician,
}

var adminRoles = []authorization.UserRole{
	authorization.RoleSuperadmin,
	authorization.RoleAdmin,
}

var superadminOnly = []authorization.UserRole{
	authorization.RoleSuperadmin,
}

// ticketStatusTransitions is the full transition table. Cancellation rows
// are listed explicitly for every non-terminal status: cancelado is an
// administrative override, terminal, and never resurrectable.
var ticketStatusTransitions = map[TicketStatus][]TransitionRule{
	StatusNuevo: {
		{To: StatusAsignado, Roles: staffRoles, Requires: InputAssignee},
		{To: StatusEnProceso, Roles: staffRoles},
		{To: StatusCancelado, Roles: adminRoles},
	},
	StatusAsignado: {
		{To: StatusEnProceso, Roles: staffRoles},
		{To: StatusCancelado, Roles: adminRoles},
	},
	StatusEnProceso: {
		{To: StatusEsperaCliente, Roles: staffRoles},
		{To: StatusResuelto, Roles: staffRoles, Requires: InputResolutionNotes},
		{To: StatusCancelado, Roles: adminRoles},
	},
	StatusEsperaCliente: {
		{To: StatusEnProceso, Roles: staffRoles},
		{To: StatusResuelto, Roles: staffRoles, Requires: InputResolutionNotes},
		{To: StatusCancelado, Roles: adminRoles},
	},
	StatusResuelto: {
		{To: StatusCerrado, Roles: staffRoles},
		{To: StatusReabierto, Roles: staffRoles, Requires: InputReopenReason},
		{To: StatusCancelado, Roles: adminRoles},
	},
	StatusReabierto: {
		{To: StatusEnProceso, Roles: staffRoles},
		{To: StatusCancelado, Roles: adminRoles},
	},
	StatusCerrado: {
		{To: StatusReabierto, Roles: superadminOnly, Requires: InputReopenReason},
	},
	StatusPendienteAprobacion: {
		{To: StatusCancelado, Roles: adminRoles},
	},
	StatusCancelado: {},
}

func (ts TicketStatus) String() string {
	return string(ts)
}

func (ts TicketStatus) IsValid() bool {
	return validTicketStatuses[ts]
}

// IsTerminal reports whether the status has no outbound transitions for
// normal roles. cerrado still admits the superadmin-only reopen.
func (ts TicketStatus) IsTerminal() bool {
	return ts == StatusCerrado || ts == StatusCancelado
}

// RuleFor returns the transition rule from this status to newStatus, if
// the edge exists in the table.
func (ts TicketStatus) RuleFor(newStatus TicketStatus) (TransitionRule, bool) {
	for _, rule := range ticketStatusTransitions[ts] {
		if rule.To == newStatus {
			return rule, true
		}
	}
	return TransitionRule{}, false
}

// CanTransitionTo reports whether the edge exists, ignoring role guards.
func (ts TicketStatus) CanTransitionTo(newStatus TicketStatus) bool {
	_, ok := ts.RuleFor(newStatus)
	return ok
}

// TransitionsFor returns the target statuses the given role may reach from
// this status. The HTTP layer uses this to enable/disable action buttons
// from the same table the state machine enforces.
func (ts TicketStatus) TransitionsFor(role authorization.UserRole) []TransitionRule {
	var allowed []TransitionRule
	for _, rule := range ticketStatusTransitions[ts] {
		if rule.AllowsRole(role) {
			allowed = append(allowed, rule)
		}
	}
	return allowed
}

func (ts TicketStatus) IsNuevo() bool {
	return ts == StatusNuevo
}

func (ts TicketStatus) IsAsignado() bool {
	return ts == StatusAsignado
}

func (ts TicketStatus) IsEnProceso() bool {
	return ts == StatusEnProceso
}

func (ts TicketStatus) IsEsperaCliente() bool {
	return ts == StatusEsperaCliente
}

func (ts TicketStatus) IsResuelto() bool {
	return ts == StatusResuelto
}

func (ts TicketStatus) IsReabierto() bool {
	return ts == StatusReabierto
}

func (ts TicketStatus) IsCerrado() bool {
	return ts == StatusCerrado
}

func (ts TicketStatus) IsCancelado() bool {
	return ts == StatusCancelado
}

func NewTicketStatus(s string) (TicketStatus, error) {
	ts := TicketStatus(s)
	if !ts.IsValid() {
		return "", fmt.Errorf("invalid ticket status: %s", s)
	}
	return ts, nil
}
