/*
Package identity names the capability an external identity provider exposes to
the session controller and supplies adapters for it.

The provider owns everything hard about authentication: password verification,
token issuance, the federated OAuth handshake. This package only shapes those
outcomes into a [Session] and relays session changes to the single subscriber
registered through [Provider.OnSessionChange].

[RestProvider] speaks an identity toolkit style REST API for email/password
accounts and composes a [GoogleVerifier] plus a [TokenGetter] for federated
sign-in. [Stub] scripts the whole capability in memory for tests and for
environments where [authkit.Environment.CanUseServiceStub] holds.
*/
package identity
