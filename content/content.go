// contains data structures that describe content in a repository
package content

const (
	// PathSeparator separator for node paths
	PathSeparator = "/"
	// TranslationPrefix name prefix of per language translation child nodes
	TranslationPrefix = "translation_"
)

// node types
const (
	TypePage                  = "cms:page"
	TypeContent               = "cms:content"
	TypeContentList           = "cms:contentList"
	TypeFile                  = "cms:file"
	TypeFolder                = "cms:folder"
	TypeUser                  = "cms:user"
	TypeTranslation           = "cms:translation"
	TypeContentReference      = "cms:contentReference"
	TypeWorkflowTask          = "cms:workflowTask"
	TypeACL                   = "cms:acl"
	TypeACE                   = "cms:ace"
	TypeConditionalVisibility = "cms:conditionalVisibility"
	TypeStartEndDateCondition = "cms:startEndDateCondition"
	TypeDayOfWeekCondition    = "cms:dayOfWeekCondition"
	TypeTimeOfDayCondition    = "cms:timeOfDayCondition"
)

// mixin types
const (
	MixinEditorial             = "cms:editorialContent"
	MixinImage                 = "cms:image"
	MixinMarkedForDeletion     = "cms:markedForDeletion"
	MixinMarkedForDeletionRoot = "cms:markedForDeletionRoot"
	MixinCacheSettings         = "cms:cacheSettings"
)

// property names
const (
	PropCreated         = "created"
	PropCreatedBy       = "createdBy"
	PropLastModified    = "lastModified"
	PropLastModifiedBy  = "lastModifiedBy"
	PropLastPublished   = "lastPublished"
	PropLastPublishedBy = "lastPublishedBy"
	PropPublished       = "published"
	PropDeletedBy       = "deletedBy"
	PropDeletionDate    = "deletionDate"
	PropTitle           = "title"
	PropDescription     = "description"
	PropKeywords        = "keywords"
	PropLockTypes       = "lockTypes"
	PropLockOwner       = "lockOwner"
	PropWIPStatus       = "workInProgressStatus"
	PropWIPLanguages    = "workInProgressLanguages"
	PropProcessID       = "processId"
	PropReference       = "reference"
	PropACLInherit      = "inherit"
	PropACEType         = "aceType"
	PropStart           = "start"
	PropEnd             = "end"
	PropDays            = "days"
	PropStartHour       = "startHour"
	PropStartMinute     = "startMinute"
	PropEndHour         = "endHour"
	PropEndMinute       = "endMinute"
	PropCacheExpiration = "expiration"
	PropCachePerUser    = "perUser"
)

// work in progress status values
const (
	WIPStatusAllContent = "ALL_CONTENT"
	WIPStatusLanguages  = "LANGUAGES"
	WIPStatusDisabled   = "DISABLED"
)

// ACETypeDeny marks an access control entry that denies access
const ACETypeDeny = "DENY"
