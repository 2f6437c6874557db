// Package steadyspace enumerates the steady states of qualitative regulatory
// network models.
//
// A model declares species with small integer domains 0..max and, for each
// species, a rule mapping the values of its regulators to a target value. A
// steady state is a configuration in which every species already holds the
// value its rule produces.
//
// Under the hood, everything is organized under these packages:
//
//	model/           species, rules, the text and YAML model formats, Load
//	steady/          bound manager, three-valued constraint checks and the
//	                 resumable lexicographic search Engine
//	network/         signed interaction graph and feedback loop enumeration
//	internal/        config, CSV output, SQLite archive, metrics, tracing and the
//	                 runner that ties them together for the CLI
//	cmd/steadyspace  the command line tool
//
// Quick example:
//
//	m, _ := model.Load("toggle.rn")
//	e, _ := steady.NewEngine(m, steady.WithBound("A", 0))
//	for cfg, ok := e.Next(); ok; cfg, ok = e.Next() {
//		fmt.Println(cfg)
//	}
//
// Configurations are produced in lexicographic order over species sorted by
// name, each exactly once. An Engine can be paused after any state and
// resumed later with Next.
package steadyspace
