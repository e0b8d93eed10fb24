package errors

import "errors"

// ErrOptimisticLock 乐观锁冲突：记录已被其他操作修改
var ErrOptimisticLock = errors.New("数据已被其他操作修改，请刷新后重试")

// ErrWeekLocked 周排班锁被占用：同一周的自动分配正在执行
var ErrWeekLocked = errors.New("该周的自动分配正在执行中，请稍后重试")
