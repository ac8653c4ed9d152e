package http

var VerifySlackRequest = verifySlackRequest
