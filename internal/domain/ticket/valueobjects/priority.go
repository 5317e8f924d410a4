package valueobjects

import "fmt"

type Priority string

const (
	PriorityBaja    Priority = "baja"
	PriorityMedia   Priority = "media"
	PriorityAlta    Priority = "alta"
	PriorityCritica Priority = "critica"
)

var validPriorities = map[Priority]bool{
	PriorityBaja:    true,
	PriorityMedia:   true,
	PriorityAlta:    true,
	PriorityCritica: true,
}

// prioritySLAHours feeds the SLA due timestamp the external SLA engine
// consumes. Breach computation itself lives outside this service.
var prioritySLAHours = map[Priority]int{
	PriorityBaja:    72,
	PriorityMedia:   24,
	PriorityAlta:    8,
	PriorityCritica: 2,
}

func (p Priority) String() string {
	return string(p)
}

func (p Priority) IsValid() bool {
	return validPriorities[p]
}

func (p Priority) GetSLAHours() int {
	hours, ok := prioritySLAHours[p]
	if !ok {
		return 72
	}
	return hours
}

func (p Priority) IsBaja() bool {
	return p == PriorityBaja
}

func (p Priority) IsMedia() bool {
	return p == PriorityMedia
}

func (p Priority) IsAlta() bool {
	return p == PriorityAlta
}

func (p Priority) IsCritica() bool {
	return p == PriorityCritica
}

func NewPriority(s string) (Priority, error) {
	p := Priority(s)
	if !p.IsValid() {
		return "", fmt.Errorf("invalid priority: %s", s)
	}
	return p, nil
}
