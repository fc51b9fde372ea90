// Package studio assembles the production system from configuration.
//
// A [Studio] owns the long-lived collaborators a run needs: the structured
// logger, the event bus, the participant registry, the discussion engine,
// the revision queue, and the pipeline coordinator. Generation backends
// are injected as [Collaborators]; [Offline] supplies a deterministic set
// for dry runs and tests.
//
// # Lifecycle
//
// [Studio.Start] attaches the event-log subscription that mirrors every
// bus event into the logger and marks the studio ready. [Studio.Stop]
// detaches it and cancels any in-flight [Studio.Produce], which then
// grades its run cancelled rather than failing. Both are idempotent, and
// the lifecycle is one-shot: a stopped studio stays stopped.
// [Studio.Close] additionally closes the logger the studio built.
//
// # Usage
//
//	cfg := config.Default()
//	st, err := studio.New(cfg, studio.Offline(cfg.Offline))
//	if err != nil {
//		return err
//	}
//	defer st.Close()
//	st.Start()
//
//	result, err := st.Produce(ctx, spec)
package studio
