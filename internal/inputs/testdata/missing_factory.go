package main

func Options() any { return nil }
