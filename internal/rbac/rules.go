package rbac

// Simple default policy. Expand as needed.
var RolePermissions = map[string][]string{
	"student": {
		"quiz:view",
		"quiz:take",
		"attempt:create",
		"attempt:view-own",
		"assessment:view",
		"result:submit",
		"result:view-own",
	},
	"teacher": {
		"quiz:create",
		"quiz:edit",
		"quiz:delete-own",
		"quiz:view",
		"question:add",
		"question:reorder",
		"attempt:view-all",
		"assessment:create",
		"assessment:edit",
		"assessment:delete-own",
		"assessment:view",
		"result:create",
		"result:grade",
		"result:view-all",
		"users:bulk_upsert",
		"users:list",
	},
	"admin": {
		"*", // everything
	},
}
