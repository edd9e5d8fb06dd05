/*
The sync package implements the template update. It copies files from an
instance repository over the files of a template repository that share the
same relative path.

Only files that already exist in the template are considered. Each one has
exactly one outcome, evaluated in this order:
1) Skip -- The relative path ends with an entry of the IgnoreList. The
   template file is left alone regardless of the instance.
2) Warn -- The instance has no file at the same relative path. The template
   file is left alone.
3) Copy -- The instance file's contents and permissions replace the
   template file's.

Files and directories that only exist in the instance are never looked at.
Empty directories aren't synced.

The first copy failure aborts the run. Files copied before the failure stay
copied, and files after it are never reached.
*/
package sync
