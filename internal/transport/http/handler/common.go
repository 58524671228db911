package handler

// affected 条件更新/删除的结果；目标不存在时 matched=0，不报错
type affected struct {
	Matched int64 `json:"matched"`
}

func rows(n int64, err error) (affected, error) { return affected{Matched: n}, err }

// identityQ email 可以为空，交给身份比对返回 403
type identityQ struct {
	Email string `form:"email"`
}
