/*
The middleware package defines what a middleware is for apps embedding authkit
and a small set of middlewares around the session controller.

The available middlewares are:
- CORS
- CurrentUser
- RequireAuthed
- RequireUnauthed

A typical chain:

	adpts := []middleware.Adapter{
		middleware.CORS(baseURL),
		middleware.CurrentUser(controller),
		middleware.RequireAuthed(),
	}
*/
package middleware
