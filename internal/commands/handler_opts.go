package commands

type HandlerOpt func(*Handler)

// WithTeleportAllowed enables the tp verb.
func WithTeleportAllowed(allowed bool) HandlerOpt {
	return func(h *Handler) {
		h.allowTeleport = allowed
	}
}
