package launcher

import "fmt"

var processLabels = map[string]string{
	ProcessBackend:  "Backend",
	ProcessFrontend: "Frontend",
}

func processLabel(name string) string {
	if label, ok := processLabels[name]; ok {
		return label
	}
	return name
}

func (l *Launcher) printBanner() {
	out := l.opts.Out
	ep := l.opts.Endpoints

	fmt.Fprintln(out)
	fmt.Fprintln(out, "Branch Messaging App is running")
	for _, line := range []struct{ label, url string }{
		{processLabel(ProcessBackend), ep.Backend},
		{"API docs", ep.Docs},
		{processLabel(ProcessFrontend), ep.Frontend},
	} {
		if line.url == "" {
			continue
		}
		fmt.Fprintf(out, "  %-10s %s\n", line.label+":", line.url)
	}
	for _, p := range l.Processes() {
		fmt.Fprintf(out, "  %-10s pid %d\n", processLabel(p.Name)+":", p.PID())
	}
	fmt.Fprintln(out)
	fmt.Fprintln(out, "Press Ctrl+C to stop")
}

// DefaultEndpoints builds the announced URLs for the given ports.
func DefaultEndpoints(backendPort, frontendPort int) Endpoints {
	backend := fmt.Sprintf("http://localhost:%d", backendPort)
	return Endpoints{
		Backend:  backend,
		Docs:     backend + "/docs",
		Frontend: fmt.Sprintf("http://localhost:%d", frontendPort),
	}
}
