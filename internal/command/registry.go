package command

// Registry indexes commands by every alias. A single alias may map to
// several commands at once; the dispatch engines only proceed when
// exactly one command matches after support filtering, so ambiguity
// is resolved at dispatch time rather than at registration time.
type Registry struct {
	lookup map[string][]*Command
	all    []*Command
}

func NewRegistry() *Registry {
	return &Registry{lookup: make(map[string][]*Command)}
}

// Register indexes cmd under each of its aliases.
func (r *Registry) Register(cmd *Command) {
	for _, id := range cmd.IDs {
		r.lookup[id] = append(r.lookup[id], cmd)
	}
	r.all = append(r.all, cmd)
}

// Lookup returns every command registered under name, possibly none.
func (r *Registry) Lookup(name string) []*Command {
	return r.lookup[name]
}

// All returns commands in registration order.
func (r *Registry) All() []*Command {
	return r.all
}
