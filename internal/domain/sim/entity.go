package sim

import "time"

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// ApplyEnergy adjusts vitals by delta, clamped to 0..100.
func (s *AgentState) ApplyEnergy(delta int) {
	s.Energy = clampInt(s.Energy+delta, 0, 100)
}

func (s *AgentState) ApplyAttention(delta int) {
	s.Attention = clampInt(s.Attention+delta, 0, 100)
}

// MarkAction records the most recent action on the state.
func (s *AgentState) MarkAction(kind string, at time.Time) {
	s.LastAction = kind
	s.LastActionTime = at
}

// ApplyDefaults fills the fields a caller may omit when storing a memory.
func (m *Memory) ApplyDefaults(now time.Time) {
	if m.Type == "" {
		m.Type = MemoryEvent
	}
	if m.Importance == 0 {
		m.Importance = 5
	}
	m.Importance = clampInt(m.Importance, 1, 10)
	if m.EmotionalTone == "" {
		m.EmotionalTone = "neutral"
	}
	if m.Timestamp.IsZero() {
		m.Timestamp = now
	}
}

// HasTag reports whether the memory carries the given tag.
func (m Memory) HasTag(tag string) bool {
	for _, t := range m.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// Merge folds partial changes into the relationship, clamping to the
// documented ranges, and bumps LastInteraction.
func (r *Relationship) Merge(p RelationshipPatch, now time.Time) {
	if p.Sentiment != nil {
		r.Sentiment = clampInt(*p.Sentiment, -10, 10)
	}
	if p.Trust != nil {
		r.Trust = clampInt(*p.Trust, 0, 10)
	}
	if p.Familiarity != nil {
		r.Familiarity = clampInt(*p.Familiarity, 0, 10)
	}
	if p.Notes != "" {
		r.Notes = p.Notes
	}
	r.LastInteraction = now
}

// NewRelationship seeds a neutral relationship toward target.
func NewRelationship(targetID string, now time.Time) Relationship {
	return Relationship{
		TargetID:        targetID,
		Sentiment:       0,
		Trust:           5,
		Familiarity:     1,
		LastInteraction: now,
	}
}

// Merge folds a partial allocation patch into the row.
func (a *ResourceAllocation) Merge(p AllocationPatch, now time.Time) {
	if p.EnergyPoints != nil {
		a.EnergyPoints = *p.EnergyPoints
	}
	if p.AttentionCredits != nil {
		a.AttentionCredits = *p.AttentionCredits
	}
	if p.ComputeAllocation != nil {
		a.ComputeAllocation = *p.ComputeAllocation
	}
	a.LastUpdated = now
}
