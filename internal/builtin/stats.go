package builtin

import (
	"fmt"
	"strings"

	"github.com/dshills/cmdroute/internal/command"
	"github.com/dshills/cmdroute/internal/dispatcher"
	"github.com/dshills/cmdroute/internal/permission"
)

// topCommands is how many commands stats lists.
const topCommands = 5

// Stats reports in-memory dispatch metrics. With an argument it reports
// one command.
func Stats(src StatsSource) command.Creator {
	return command.CreatorFunc(func() (*command.Command, error) {
		h := command.HandlerFunc(func(inv *command.Invocation) (bool, error) {
			if len(inv.Args) > 1 {
				return false, nil
			}
			m := src.Metrics()
			if m == nil {
				inv.Actor.Message("Metrics are disabled.")
				return true, nil
			}
			if len(inv.Args) == 1 {
				cm := m.CommandStats(inv.Args[0])
				if cm == nil {
					inv.Actor.Message(fmt.Sprintf("No statistics for %q.", inv.Args[0]))
					return true, nil
				}
				inv.Actor.Message(formatCommand(cm))
				return true, nil
			}
			inv.Actor.Message(formatSnapshot(m))
			return true, nil
		})

		return command.New(NameStats, h,
			command.WithDescription("Shows dispatch statistics"),
			command.WithPermission(permission.Node(NodeStats)),
			command.WithUsage("stats [command]"))
	})
}

func formatSnapshot(m *dispatcher.Metrics) string {
	s := m.Snapshot()

	var b strings.Builder
	fmt.Fprintf(&b, "Dispatches: %d (errors %d, panics %d)", s.TotalDispatches, s.TotalErrors, s.TotalPanics)
	fmt.Fprintf(&b, "\nAverage: %s", s.AverageDuration)
	for _, k := range dispatcher.Kinds {
		if n := s.ByKind[k]; n > 0 {
			fmt.Fprintf(&b, "\n  %s: %d", k, n)
		}
	}
	top := m.TopCommands(topCommands)
	if len(top) > 0 {
		b.WriteString("\nTop commands:")
		for _, cm := range top {
			fmt.Fprintf(&b, "\n  %s: %d", cm.Name, cm.DispatchCount)
		}
	}
	return b.String()
}

func formatCommand(cm *dispatcher.CommandMetrics) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s: %d dispatches, %d errors (%.0f%%)", cm.Name, cm.DispatchCount, cm.ErrorCount, cm.ErrorRate())
	fmt.Fprintf(&b, "\nDuration: avg %s, min %s, max %s", cm.AverageDuration(), cm.MinDuration, cm.MaxDuration)
	fmt.Fprintf(&b, "\nLast: %s", cm.LastKind)
	return b.String()
}
