package match

import "ManaMerge/modules/kit/errx"

const CodeMergeNotEligible errx.Code = "BOARD_MERGE_NOT_ELIGIBLE"

// ErrMergeNotEligible 是正常的否定结果：匹配不足 3 个、kind/tier 不一致或 focus 不在集合内。
var ErrMergeNotEligible = errx.NewBiz(CodeMergeNotEligible, "不满足合成条件")
