package rbac

const (
	PermDraftEdit    = "draft:edit"
	PermDraftPreview = "draft:preview"
	PermQuizPublish  = "quiz:publish"
	PermProfileView  = "profile:view"
	PermPasswordEdit = "profile:change_password"
)

// Every signed-up account is an author. Respondents need no account.
var RolePermissions = map[string][]string{
	"author": {
		"draft:*",
		PermQuizPublish,
		"profile:*",
	},
	"viewer": {
		PermProfileView,
		PermPasswordEdit,
	},
	"admin": {
		"*",
	},
}
