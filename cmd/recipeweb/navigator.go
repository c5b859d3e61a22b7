package main

import (
	"fmt"
	"io"
	"sync"
)

// terminalNavigator tracks which page the CLI is showing. A redirect from the
// session monitor interrupts protected pages.
type terminalNavigator struct {
	mu         sync.Mutex
	path       string
	out        io.Writer
	redirected chan struct{}
	once       sync.Once
}

func newTerminalNavigator(path string, out io.Writer) *terminalNavigator {
	return &terminalNavigator{
		path:       path,
		out:        out,
		redirected: make(chan struct{}),
	}
}

func (n *terminalNavigator) CurrentPath() string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.path
}

func (n *terminalNavigator) Redirect(path string) {
	n.mu.Lock()
	n.path = path
	n.mu.Unlock()

	n.once.Do(func() {
		fmt.Fprintf(n.out, "\nYour session has expired. Please sign in again with: recipeweb login (%s)\n", path)
		close(n.redirected)
	})
}

// Enter moves to another page
func (n *terminalNavigator) Enter(path string) {
	n.mu.Lock()
	n.path = path
	n.mu.Unlock()
}

// Redirected is closed once the monitor has sent the user to the login page
func (n *terminalNavigator) Redirected() <-chan struct{} {
	return n.redirected
}

func (n *terminalNavigator) wasRedirected() bool {
	select {
	case <-n.redirected:
		return true
	default:
		return false
	}
}
