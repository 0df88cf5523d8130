// SPDX-License-Identifier: MPL-2.0

package dispatch

import "github.com/lunescripts/lunescripts/internal/scripts"

type (
	// Invocation identifies what a run action was triggered on. The set of
	// implementations is closed; resolvePath switches over all of them.
	Invocation interface {
		invocation()
	}

	// ResourceInvocation is a filesystem resource, e.g. a file chosen in an
	// explorer or passed on the command line.
	ResourceInvocation struct {
		Path string
	}

	// NodeInvocation is a node of the script tree.
	NodeInvocation struct {
		Node *scripts.Node
	}

	// ResourceBearerInvocation is any other object that carries a resource,
	// e.g. a file:// URI handed over by an editor.
	ResourceBearerInvocation struct {
		ResourcePath string
	}

	// ContextInvocation carries no target; the active editor document is used.
	ContextInvocation struct{}
)

func (ResourceInvocation) invocation()       {}
func (NodeInvocation) invocation()           {}
func (ResourceBearerInvocation) invocation() {}
func (ContextInvocation) invocation()        {}
