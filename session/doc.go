/*
Package session holds the auth session controller, the piece of an authkit app
that keeps "who is logged in" coherent across three parties: the identity
provider owning credentials, the profile service owning UserProfile records,
and client-local storage caching the last-known profile.

A [Controller] is constructed once at the composition root with its
collaborators injected, then threaded to consumers explicitly or through
[NewContext]/[FromContext]. Consumers read [Controller.CurrentUser] and
[Controller.Loading] and drive the five actions: Login, Signup, UpdateProfile,
Logout, and FederatedSignIn.

The controller mirrors the behavior of the front-end it serves, quirks
included: a profile fetch failing during a session change only logs, leaving
state stale; Logout clears local state before the provider confirms; and the
loading flag never gates overlapping actions.
*/
package session
