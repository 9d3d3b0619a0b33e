package query

// 各业务查询的缓存指纹，集中定义避免各处拼写不一致

// UserMovieKey (用户, 电影) 观影记录
func UserMovieKey(userID, movieID int) Key {
	return NewKey("user_movies", userID, movieID)
}

// UserStatsKey 用户统计数据
func UserStatsKey(userID int) Key {
	return NewKey("profile_stats", userID)
}

// UserActivitiesKey 用户个人动态列表
func UserActivitiesKey(userID int) Key {
	return NewKey("profile_activities", userID)
}

// ProfileKey 用户资料
func ProfileKey(userID int) Key {
	return NewKey("profile", userID)
}

// WatchlistKey 单个片单（含条目）
func WatchlistKey(watchlistID int) Key {
	return NewKey("watchlist", watchlistID)
}

// WatchlistsKey 用户的全部片单
func WatchlistsKey(userID int) Key {
	return NewKey("watchlists", userID)
}

// FollowKey (关注者, 被关注者) 关注状态
func FollowKey(followerID, followingID int) Key {
	return NewKey("follow", followerID, followingID)
}

// GlobalActivityKey 全站动态流
func GlobalActivityKey() Key {
	return NewKey("global_activity")
}

// MovieKey 本地电影记录
func MovieKey(movieID int) Key {
	return NewKey("movie", movieID)
}
