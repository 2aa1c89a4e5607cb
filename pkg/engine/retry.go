package engine

import (
	"context"
	"fmt"
	"time"

	"github.com/smilemakc/flowcore/pkg/skill"
)

// runWithRetry invokes s.Execute up to 1+def.RetryCount times under a
// per-attempt deadline of def.TimeoutSeconds, sleeping 2^attempt seconds
// (attempts counted from 0) between failures. It returns the final Result
// and how many attempts were made, so the caller can record retry_count —
// every failed attempt, including the last, counts.
func runWithRetry(ctx context.Context, s skill.Skill, buildContext func() *skill.InvocationContext, def skill.Definition) (skill.Result, int) {
	maxAttempts := 1 + def.RetryCount
	timeout := time.Duration(def.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = skill.DefaultTimeoutSeconds * time.Second
	}

	var last skill.Result
	attempts := 0

	for attempt := 0; attempt < maxAttempts; attempt++ {
		if ctx.Err() != nil {
			last = skill.Failed(ctx.Err())
			attempts++
			break
		}

		attempts++
		last = runOneAttempt(ctx, s, buildContext(), timeout)
		if last.Status == skill.StatusSuccess {
			return last, attempts
		}

		if attempt < maxAttempts-1 {
			backoff := time.Duration(1<<uint(attempt)) * time.Second
			select {
			case <-time.After(backoff):
			case <-ctx.Done():
			}
		}
	}

	return last, attempts
}

// runOneAttempt races the skill invocation against a deadline, synthesizing
// a timeout failure if the deadline elapses first. It also recovers from a
// skill panic, since "execute must not raise to the scheduler" is a
// contract the scheduler enforces defensively rather than trusts.
func runOneAttempt(ctx context.Context, s skill.Skill, ic *skill.InvocationContext, timeout time.Duration) skill.Result {
	attemptCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	resultCh := make(chan skill.Result, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				resultCh <- skill.Failed(fmt.Errorf("skill panicked: %v", r))
			}
		}()
		resultCh <- s.Execute(attemptCtx, ic)
	}()

	select {
	case res := <-resultCh:
		return res
	case <-attemptCtx.Done():
		seconds := int(timeout.Seconds())
		return skill.Failed(
			fmt.Errorf("Execution timed out after %ds", seconds),
			fmt.Sprintf("Execution timed out after %ds", seconds),
		)
	}
}
