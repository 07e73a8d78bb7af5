package config

import (
	"fmt"
)

type CacheKeyStruct struct{}

func NewCacheKeyStruct() *CacheKeyStruct {
	return &CacheKeyStruct{}
}

// StudentSessionKey returns the cache key for a student's login session.
func (r *CacheKeyStruct) StudentSessionKey(studentID int) string {
	return fmt.Sprintf("login:student:%d", studentID)
}

// GroupStatsKey returns the cache key for a group's completion rollup.
func (r *CacheKeyStruct) GroupStatsKey(groupID int) string {
	return fmt.Sprintf("group:%d:stats", groupID)
}

// StudentStatsKey returns the cache key for a student's completion stat
// within a course.
func (r *CacheKeyStruct) StudentStatsKey(courseID, studentID int) string {
	return fmt.Sprintf("course:%d:stats:%d", courseID, studentID)
}

// CourseWorklogChannel returns the Redis PubSub channel carrying live
// clock-in/clock-out/review events for a course.
func (r *CacheKeyStruct) CourseWorklogChannel(courseID int) string {
	return fmt.Sprintf("course:%d:worklog", courseID)
}

var CacheKey = NewCacheKeyStruct()
