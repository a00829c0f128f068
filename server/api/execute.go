package api

import (
	"net/http"
	"time"

	"github.com/kallsbrook/recurtrace"
	"github.com/kallsbrook/recurtrace/server/result"
	"github.com/kallsbrook/recurtrace/syntax"
)

// HTTPExecute returns a HandlerFunc that parses and runs a submitted
// program and reports its full call tree.
func (api API) HTTPExecute() http.HandlerFunc {
	return Endpoint(api.epExecute)
}

// executeRequest is the body of a POST to the execute endpoint.
type executeRequest struct {
	Code string `json:"code"`
}

// executeResponse mirrors the HTTP collaborator's contract: exactly one of
// Error or Nodes is ever populated.
type executeResponse struct {
	Error *errorModel `json:"error,omitempty"`
	Nodes *treeNode   `json:"nodes,omitempty"`
}

// errorModel reports a failure at the (line, column) it occurred at. Stack
// and iteration failures always report the fixed (1, 0) location, since
// they are detected between statements rather than at a specific token.
type errorModel struct {
	Line    int    `json:"lineno"`
	Col     int    `json:"col"`
	Message string `json:"message"`
}

// treeNode is one call activation in the reported tree. Args and Retval
// serialize as their native JSON types via syntax.Value's MarshalJSON, not
// as display strings.
type treeNode struct {
	Args     []syntax.Value `json:"args"`
	Retval   *syntax.Value  `json:"retval"`
	Count    int            `json:"count"`
	Children []treeNode     `json:"children"`
}

func buildTreeNode(f *recurtrace.Frame) treeNode {
	node := treeNode{
		Args:   f.Args,
		Retval: f.Retval,
		Count:  f.FrameID,
	}
	for _, child := range f.Children {
		node.Children = append(node.Children, buildTreeNode(child))
	}
	return node
}

func (api API) epExecute(req *http.Request) result.Result {
	var body executeRequest
	if err := parseJSON(req, &body); err != nil {
		return result.BadRequest("could not parse request body", "%s", err)
	}

	prog, err := recurtrace.Parse(body.Code)
	if err != nil {
		return result.OK(executeResponse{Error: toErrorModel(err)}, "program failed to parse")
	}

	root, execErr := api.runWithTimeout(prog)
	if execErr != nil {
		return result.OK(executeResponse{Error: toErrorModel(execErr)}, "program failed during execution")
	}

	node := buildTreeNode(root)
	return result.OK(executeResponse{Nodes: &node}, "program executed to completion")
}

// runWithTimeout executes prog, giving up and reporting a resource-limit
// error if it runs longer than api.Timeout. The interpreter has no internal
// cancellation point, so a goroutine is left running to completion in the
// timeout case; it cannot escape its own resource guards forever.
func (api API) runWithTimeout(prog *syntax.Program) (*recurtrace.Frame, error) {
	ctx := recurtrace.NewContext(prog.Func)

	type outcome struct {
		root *recurtrace.Frame
		err  error
	}
	done := make(chan outcome, 1)

	go func() {
		_, err := recurtrace.Execute(ctx, prog)
		done <- outcome{root: ctx.Root, err: err}
	}()

	timeout := api.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	select {
	case out := <-done:
		return out.root, out.err
	case <-time.After(timeout):
		return nil, recurtrace.StackError{Message: "execution exceeded the server's time limit"}
	}
}

func toErrorModel(err error) *errorModel {
	switch e := err.(type) {
	case recurtrace.ParseError:
		return &errorModel{Line: e.Line, Col: e.Col, Message: e.Message}
	case recurtrace.StackError:
		return &errorModel{Line: e.Line(), Col: e.Col(), Message: "Stack limit exceeded."}
	case recurtrace.IterationError:
		return &errorModel{Line: e.Line(), Col: e.Col(), Message: "Iteration limit exceeded."}
	default:
		return &errorModel{Line: 1, Col: 0, Message: err.Error()}
	}
}
