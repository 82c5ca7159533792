package interp

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/josephlewis42/subsh/core/ast"
)

// runPipeline stages the items back to front so each stage's stdin pipe
// exists before the stage to its left needs the matching writer. All
// stages run concurrently; for N stages exactly N-1 pipe pairs are
// created, and every stage is joined before the pipeline returns. The
// pipeline's status is the rightmost stage's.
func (in *Interp) runPipeline(ctx context.Context, pipeline *ast.Pipeline, stdin Stdin, stdout, stderr Stdout) (int, error) {
	n := len(pipeline.Items)
	in.events.PipelineStart(n)

	statuses := make([]int, n)
	var stages errgroup.Group
	next := stdout
	for k := n - 1; k >= 0; k-- {
		stageOut := next
		stageIn := stdin
		if k > 0 {
			pr, pw := in.newPipe()
			stageIn = PipeStdin(pr)
			next = PipeStdout(pw)
		}
		k, item, stageIn, stageOut := k, pipeline.Items[k], stageIn, stageOut
		stages.Go(func() error {
			status, err := in.runStage(ctx, item, stageIn, stageOut, stderr)
			statuses[k] = status
			return err
		})
	}

	// Even when a stage fails, every spawned child is waited on before
	// the error propagates.
	err := stages.Wait()
	return statuses[n-1], err
}

// runStage runs one pipeline item and guarantees the stage-owned pipe
// endpoints are released afterwards, whatever the item was: stages that
// never write still have to deliver EOF downstream, and stages that never
// read must not leave their upstream writer blocked.
func (in *Interp) runStage(ctx context.Context, item ast.PipelineItem, stdin Stdin, stdout, stderr Stdout) (int, error) {
	defer func() {
		if stdout.IsPipe() {
			stdout.pipe.Shutdown()
		}
		if stdin.IsPipe() {
			stdin.pipe.Close()
		}
	}()
	return in.runExpr(ctx, item, stdin, stdout, stderr)
}
