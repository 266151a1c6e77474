// Package cli provides the interactive greetkeeper terminal client.
//
// App owns the configuration, the gateway, the session store and the
// services, and renders one screen per navigation route:
//
//	/               home (what greetkeeper does)
//	/auth           sign in / sign up
//	/add-person     add-contact form
//	/people         contact list with birthday countdowns
//	/generate/:id   greeting for one contact
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
// Screens print failures inline through userMessage and never end the
// session; only input errors (EOF) stop the loop.
package cli
