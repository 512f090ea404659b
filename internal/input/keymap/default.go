package keymap

// DefaultKeymap returns the bindings installed when no keymap file is
// configured.
func DefaultKeymap() *Keymap {
	return &Keymap{
		Name:   "default",
		Source: "default",
		Bindings: []Binding{
			{Keys: []string{"ctrl+q", "ctrl+c"}, Action: "quit", ID: "quit", Description: "Quit"},
			{Keys: []string{"esc"}, Action: "scope.pop", ID: "scope.pop", Description: "Leave the current scope"},
			{Keys: []string{"ctrl+shift+r"}, Action: "scope.reset", ID: "scope.reset", Description: "Return to the global scope"},
			{Keys: []string{"shift+/"}, Action: "cheatsheet", ID: "cheatsheet", Description: "Show shortcuts"},
			{Keys: []string{"ctrl+g"}, Action: "metrics", ID: "metrics", Description: "Show dispatch metrics"},
			{
				Keys:        []string{"g g"},
				Action:      "log",
				Args:        map[string]any{"message": "g g"},
				ID:          "log.gg",
				Sequential:  true,
				Description: "Log a sequence",
			},
		},
	}
}
