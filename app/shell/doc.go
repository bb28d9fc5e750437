// Package shell coordinates the authentication flows the application runs
// at its lifecycle edges: the startup probe, revalidation when the UI
// becomes visible again, and the login and logout sequences.
//
// The startup probe answers "am I authenticated?" from the persisted
// session immediately, arms the refresh-protection window, and fires a
// non-blocking revalidation against the backend. An auth rejection that
// arrives inside the window is ignored (a restart or flaky network is not
// proof the token went bad); one that arrives after it clears the session.
// Revalidation results are applied through the session store's generation
// check, so a slow response can never resurrect a session that was logged
// out in the meantime.
package shell
