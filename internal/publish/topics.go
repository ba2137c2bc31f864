// internal/publish/topics.go
package publish

import "strings"

// Topic layout under the configured prefix:
//
//	<prefix>/<member>/<signal>        state, retained
//	<prefix>/<member>/<signal>/set    inbound commands
//	<prefix>/bridge/availability      online/offline, retained
//	<prefix>/bridge/status            poll statistics JSON

func stateTopic(prefix, member, signal string) string {
	return prefix + "/" + member + "/" + signal
}

func commandFilterTopic(prefix string) string {
	return prefix + "/+/+/set"
}

func availabilityTopic(prefix string) string {
	return prefix + "/bridge/availability"
}

func statusTopic(prefix string) string {
	return prefix + "/bridge/status"
}

// parseCommandTopic extracts (member, signal) from a command topic.
func parseCommandTopic(prefix, topic string) (member, signal string, ok bool) {
	rest, found := strings.CutPrefix(topic, prefix+"/")
	if !found {
		return "", "", false
	}
	parts := strings.Split(rest, "/")
	if len(parts) != 3 || parts[2] != "set" || parts[0] == "" || parts[1] == "" {
		return "", "", false
	}
	return parts[0], parts[1], true
}
