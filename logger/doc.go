/*
Package logger provides logging functionality to an authkit app by defining the required behavior in [Logger]
and providing an implementation of it with [KitLogger].

# Overview

The Logger interface outputs messages at certain levels of importance.
LogLevel is the type to use to represent those levels.
An implementation of Logger may be initialized at a certain [LogLevel]
and only emit messages at or above that level of importance.
For example, [KitLogger] accepts a [LogLevel],
and if initialized with [LogLevelWarn],
only [*KitLogger.Warn], [*KitLogger.Error], and [*KitLogger.Fatal] produce messages.

# KitLogger

Log messages emitted by [KitLogger] are composed of a few parts:
  - timestamp
  - log level
  - call site
  - message
  - log context

Here's an example:

	2024/04/28 15:55:21 [DEBUG] session/controller.go:43 'such fun!' log_context: "{"user":{"id": "1", "email": "me@example.com"}}"

The file, line number, and parent directory of where a [KitLogger] method is called comprise the call site.
The message is the actual string passed into the [KitLogger] method.
Lastly, the log context is a JSON-encoded [*LogContext],
allowing for additional data inessential to the message proper,
but providing a fuller picture of the application state at the time of logging.

# SkipLogger

Sometimes, especially with internal packages, the file and line number in a log needs to be configurable.
[SkipLogger] provides additional configuration functionality by setting the number of frames to skip
back in order to reach the desired caller.
*/
package logger
