// Package services contains the client's application logic, kept free of
// terminal I/O so the screens in package cli stay thin:
//
//   - AuthService: sign-in, and sign-up as a named-step saga
//   - PeopleService: contact list, add and delete, birthday countdown
//   - GreetingService: the per-visit greeting state machine, credit debit,
//     copy-to-clipboard indicator and archive upload
//
// Services share one session.Store owned by the shell.
package services
