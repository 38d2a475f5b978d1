// Package profile adds runtime profiling capabilities to CLI applications.
//
// It supports CPU, heap, and allocs profiles through command-line flags,
// which is the set that matters when measuring parser and serializer
// throughput. Use [Config.RegisterFlags] to add CLI flags.
//
// Typical usage creates a [Config], registers flags, then creates a
// [Profiler] to wrap command execution:
//
//	cfg := profile.NewConfig()
//	p := cfg.NewProfiler()
//
//	rootCmd := &cobra.Command{
//	    PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
//	        return p.Start()
//	    },
//	}
//
//	cfg.RegisterFlags(rootCmd.PersistentFlags())
//	err := rootCmd.Execute()
//	stopErr := p.Stop()
//
// Users can then enable profiling via flags like --cpu-profile=cpu.prof.
package profile
