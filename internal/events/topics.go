package events

const (
	TopicSignedUp       = "auth.signed.up"
	TopicSignedIn       = "auth.signed.in"
	TopicHealthzChecked = "healthz.checked"

	TopicCheckHealthz = "check.healthz"
	TopicUserDeleted  = "user.deleted"
)

// PublishedTopics are the topics this service writes to.
var PublishedTopics = []string{TopicSignedUp, TopicSignedIn, TopicHealthzChecked}

// ConsumedTopics are the topics this service subscribes to.
var ConsumedTopics = []string{TopicCheckHealthz, TopicUserDeleted}
