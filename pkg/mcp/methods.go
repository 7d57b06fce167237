package mcp

// Method names dispatched by the router (spec §4.3), as a typed string so
// handler registration and router dispatch can't typo a method name.
type Method string

const (
	MethodInitialize  Method = "initialize"
	MethodPing        Method = "ping"
	MethodResourcesList       Method = "resources/list"
	MethodResourcesRead       Method = "resources/read"
	MethodResourcesSubscribe  Method = "resources/subscribe"
	MethodResourcesUnsubscribe Method = "resources/unsubscribe"
	MethodToolsList   Method = "tools/list"
	MethodToolsCall   Method = "tools/call"
	MethodPromptsList Method = "prompts/list"
	MethodPromptsGet  Method = "prompts/get"
	MethodLoggingSetLevel Method = "logging/setLevel"
	MethodSamplingCreateMessage Method = "sampling/createMessage"
	MethodRootsList   Method = "roots/list"

	NotificationInitialized              Method = "initialized"
	NotificationProgress                 Method = "notifications/progress"
	NotificationMessage                  Method = "notifications/message"
	NotificationCancelled                Method = "notifications/cancelled"
	NotificationResourcesUpdated         Method = "notifications/resources/updated"
	NotificationToolsListChanged         Method = "notifications/tools/updated"
	NotificationPromptsListChanged       Method = "notifications/prompts/updated"
	NotificationRootsListChanged         Method = "notifications/roots/updated"
)
