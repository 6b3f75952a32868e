package badgerstore

import "jirabackend/db"

var (
	_ db.CredentialsRepository          = (*CredentialsRepository)(nil)
	_ db.ChannelSubscriptionsRepository = (*ChannelSubscriptionsRepository)(nil)
	_ db.UserSubscriptionsRepository    = (*UserSubscriptionsRepository)(nil)
)
