package chat

// Coercion records a turn whose role was replaced during sanitization.
type Coercion struct {
	Index int
	Role  string
}

// Sanitize returns a copy of turns in which every turn with a role outside
// the allowed set is replaced by an assistant turn carrying the same content.
// Valid turns are returned unchanged. No turn is added, dropped or reordered,
// and sanitizing the result again is a no-op.
func Sanitize(turns []Turn) ([]Turn, []Coercion) {
	out := make([]Turn, len(turns))
	var coerced []Coercion

	for i, t := range turns {
		if IsAllowedRole(t.Role) {
			out[i] = t
			continue
		}

		coerced = append(coerced, Coercion{Index: i, Role: t.Role})
		out[i] = Turn{Role: RoleAssistant, Content: t.Content}
	}

	return out, coerced
}
